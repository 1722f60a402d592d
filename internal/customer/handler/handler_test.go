package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopseed/shopseed/internal/customer"
	"github.com/shopseed/shopseed/internal/customer/service"
	"github.com/stretchr/testify/require"
)

func TestCustomerHandler_Read(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	svc := service.NewMemoryService(
		customer.Customer{ID: 1, Name: "Asha", Age: 31, City: "Pune"},
		customer.Customer{ID: 3, Name: "Sanjay", Age: 40, City: "Delhi"},
	)
	RegisterCustomerRoutes(g, svc)

	// list
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var list []customer.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	require.Equal(t, 1, list[0].ID)

	// get
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/customers/3", nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var got customer.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, customer.Customer{ID: 3, Name: "Sanjay", Age: 40, City: "Delhi"}, got)

	// missing
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/customers/2", nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)

	// bad id
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/customers/abc", nil)
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
