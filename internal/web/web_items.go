package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-pugtodo/internal/models"
)

// listPage renders all items
func (s *WebServer) listPage(c *gin.Context) {
	items, err := s.DB.List(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	data := ListPageData{
		TemplateData: s.getBaseTemplateData("TODO List"),
		Items:        items,
		MaxLength:    models.MaxTextLength,
	}
	s.renderTemplate(c, http.StatusOK, "index.html", data)
}

// createItem stores a new item from the todo form field
func (s *WebServer) createItem(c *gin.Context) {
	var form models.ItemForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderError(c, &models.Error{Kind: models.KindInvalidInput, Op: "create", Err: err})
		return
	}
	if _, err := s.DB.Create(c.Request.Context(), form.Todo); err != nil {
		s.renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// deleteItem removes the item named in the path; unknown ids are ignored
func (s *WebServer) deleteItem(c *gin.Context) {
	if err := s.DB.Delete(c.Request.Context(), c.Param("itemId")); err != nil {
		s.renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// updatePage renders the edit form, or its not-found state
func (s *WebServer) updatePage(c *gin.Context) {
	itemID := c.Param("itemId")
	item, err := s.DB.Get(c.Request.Context(), itemID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	title := "Edit item"
	if item == nil {
		title = "Item not found"
	}
	data := UpdatePageData{
		TemplateData: s.getBaseTemplateData(title),
		ItemID:       itemID,
		Item:         item,
		MaxLength:    models.MaxTextLength,
	}
	s.renderTemplate(c, http.StatusOK, "update.html", data)
}

// updateItem replaces the text of the item named in the path
func (s *WebServer) updateItem(c *gin.Context) {
	var form models.ItemForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderError(c, &models.Error{Kind: models.KindInvalidInput, Op: "update", Err: err})
		return
	}
	if err := s.DB.Update(c.Request.Context(), c.Param("itemId"), form.Todo); err != nil {
		s.renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
