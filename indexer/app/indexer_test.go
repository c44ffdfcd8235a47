package app

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// a db-less indexer must answer api requests with an error, not panic
func TestHandlersWithoutStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	indexer := &Indexer{}

	for _, handler := range []func(*gin.Context){
		indexer.getClass,
		indexer.getClasses,
		indexer.getRecord,
		indexer.getRecords,
		indexer.getActivity,
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/api?key=x&class=x&name=x&record=x", nil)
		handler(c)
		assert.Equal(t, 500, w.Code)
	}
}
