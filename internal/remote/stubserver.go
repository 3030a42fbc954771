package remote

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StubServer exposes a MemStore over the same HTTP collection contract that
// HTTPStore consumes. It backs end-to-end tests of the HTTP client and can be
// run as a standalone development backend.
type StubServer struct {
	store  *MemStore
	engine *gin.Engine
}

// NewStubServer creates a stub backend over the given store.
func NewStubServer(store *MemStore) *StubServer {
	gin.SetMode(gin.ReleaseMode)
	s := &StubServer{store: store, engine: gin.New()}
	s.engine.Use(gin.Recovery())

	s.engine.GET("/health", s.health)
	s.engine.GET("/:collection", s.list)
	s.engine.POST("/:collection", s.insert)
	s.engine.PATCH("/:collection/:id", s.update)
	s.engine.DELETE("/:collection/:id", s.delete)
	s.engine.DELETE("/:collection", s.deleteWhere)

	return s
}

// Handler returns the underlying http.Handler for use with httptest or an
// http.Server.
func (s *StubServer) Handler() http.Handler {
	return s.engine
}

func (s *StubServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *StubServer) list(c *gin.Context) {
	order := Order{Field: c.Query("order_by"), Descending: c.Query("dir") == "desc"}
	rows, err := s.store.List(c.Request.Context(), c.Param("collection"), order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == nil {
		rows = []Row{}
	}
	c.JSON(http.StatusOK, rows)
}

func (s *StubServer) insert(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := s.store.Insert(c.Request.Context(), c.Param("collection"), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusCreated, "application/json", row)
}

func (s *StubServer) update(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.Update(c.Request.Context(), c.Param("collection"), c.Param("id"), body); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *StubServer) delete(c *gin.Context) {
	if err := s.store.Delete(c.Request.Context(), c.Param("collection"), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *StubServer) deleteWhere(c *gin.Context) {
	field := c.Query("field")
	value := c.Query("value")
	if field == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field query parameter is required"})
		return
	}
	if err := s.store.DeleteWhere(c.Request.Context(), c.Param("collection"), field, value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
