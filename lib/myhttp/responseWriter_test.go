package myhttp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/printshop/lib/myerrors"
	"github.com/MarcGrol/printshop/lib/mylog"
)

func TestResponseWriter(t *testing.T) {
	writer := NewWriter(mylog.New("test"))

	t.Run("Write success", func(t *testing.T) {
		response := httptest.NewRecorder()
		writer.Write(context.TODO(), response, http.StatusCreated, SuccessResponse{Message: "ok"})

		assert.Equal(t, 201, response.Code)
		assert.Equal(t, "application/json", response.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"message":"ok"}`, response.Body.String())
	})

	t.Run("Write error", func(t *testing.T) {
		response := httptest.NewRecorder()
		writer.WriteError(context.TODO(), response, 3, myerrors.NewNotFoundError(fmt.Errorf("cart not found")))

		assert.Equal(t, 404, response.Code)
		assert.JSONEq(t, `{"errorCode":3,"message":"status: 404, err: cart not found"}`, response.Body.String())
	})
}

func TestHostnameWithScheme(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "/api/session", nil)
	r.Host = "localhost:8888"
	assert.Equal(t, "http://localhost:8888", HostnameWithScheme(r))
}
