package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/Houeta/employee-api/internal/lib/logger/sl"
	"github.com/Houeta/employee-api/internal/models"
	"github.com/Houeta/employee-api/internal/repository"
	"github.com/Houeta/employee-api/internal/server"
	mocks "github.com/Houeta/employee-api/mock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*mux.Router, *mocks.Service) {
	t.Helper()

	svc := mocks.NewService(t)
	return server.NewRouter(sl.NewDiscardLogger(), svc, server.RouterOptions{}), svc
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	return rr
}

func TestCreateEmployee(t *testing.T) {
	t.Parallel()

	t.Run("created", func(t *testing.T) {
		t.Parallel()
		router, svc := newTestRouter(t)
		input := models.NewEmployee().WithFirstName("Test").WithLastName("Test").WithEmail("test@gmail.com").Build()
		saved := input
		saved.ID = 1
		svc.On("SaveEmployee", mock.Anything, input).Return(saved, nil).Once()

		rr := serve(router, http.MethodPost, "/employee",
			`{"id":42,"firstName":"Test","lastName":"Test","email":"test@gmail.com"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"id":1,"firstName":"Test","lastName":"Test","email":"test@gmail.com"}`, rr.Body.String())
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		router, svc := newTestRouter(t)
		svc.On("SaveEmployee", mock.Anything, mock.AnythingOfType("models.Employee")).
			Return(models.Employee{}, &models.DuplicateEmailError{Email: "test@gmail.com"}).Once()

		rr := serve(router, http.MethodPost, "/employee",
			`{"firstName":"Test","lastName":"Test","email":"test@gmail.com"}`)

		require.Equal(t, http.StatusConflict, rr.Code)
		assert.JSONEq(t, `{"error":"employee with same email already exists: test@gmail.com"}`, rr.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t)

		rr := serve(router, http.MethodPost, "/employee", `{"firstName":`)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"invalid request body"}`, rr.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		router, svc := newTestRouter(t)
		svc.On("SaveEmployee", mock.Anything, mock.AnythingOfType("models.Employee")).
			Return(models.Employee{}, errors.New("connection reset")).Once()

		rr := serve(router, http.MethodPost, "/employee", `{"firstName":"A","lastName":"B","email":"c@d.e"}`)

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"internal error"}`, rr.Body.String())
	})
}

func TestListEmployees(t *testing.T) {
	t.Parallel()

	t.Run("three employees", func(t *testing.T) {
		t.Parallel()
		router, svc := newTestRouter(t)
		svc.On("GetAllEmployees", mock.Anything).Return([]models.Employee{
			{ID: 1, FirstName: "A", LastName: "A", Email: "a@x.com"},
			{ID: 2, FirstName: "B", LastName: "B", Email: "b@x.com"},
			{ID: 3, FirstName: "C", LastName: "C", Email: "c@x.com"},
		}, nil).Once()

		rr := serve(router, http.MethodGet, "/employee", "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[
			{"id":1,"firstName":"A","lastName":"A","email":"a@x.com"},
			{"id":2,"firstName":"B","lastName":"B","email":"b@x.com"},
			{"id":3,"firstName":"C","lastName":"C","email":"c@x.com"}
		]`, rr.Body.String())
	})

	t.Run("empty store renders empty array", func(t *testing.T) {
		t.Parallel()
		router, svc := newTestRouter(t)
		svc.On("GetAllEmployees", mock.Anything).Return(nil, nil).Once()

		rr := serve(router, http.MethodGet, "/employee", "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		router, svc := newTestRouter(t)
		svc.On("GetAllEmployees", mock.Anything).Return(nil, errors.New("db down")).Once()

		rr := serve(router, http.MethodGet, "/employee", "")

		require.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestGetEmployee(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		router, svc := newTestRouter(t)
		svc.On("GetEmployeeByID", mock.Anything, int64(1)).
			Return(models.Employee{ID: 1, FirstName: "Test", LastName: "Test", Email: "test@gmail.com"}, true, nil).Once()

		rr := serve(router, http.MethodGet, "/employee/1", "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"id":1,"firstName":"Test","lastName":"Test","email":"test@gmail.com"}`, rr.Body.String())
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		router, svc := newTestRouter(t)
		svc.On("GetEmployeeByID", mock.Anything, int64(999999999)).Return(models.Employee{}, false, nil).Once()

		rr := serve(router, http.MethodGet, "/employee/999999999", "")

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("id overflows int64", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t)

		rr := serve(router, http.MethodGet, "/employee/99999999999999999999", "")

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("non numeric id does not match", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t)

		rr := serve(router, http.MethodGet, "/employee/abc", "")

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestUpdateEmployee(t *testing.T) {
	t.Parallel()

	t.Run("merges body into stored record", func(t *testing.T) {
		t.Parallel()
		router, svc := newTestRouter(t)
		stored := models.Employee{ID: 1, FirstName: "Test", LastName: "Test", Email: "test@gmail.com"}
		merged := models.Employee{ID: 1, FirstName: "Test2", LastName: "Test2", Email: "test2@gmail.com"}
		svc.On("GetEmployeeByID", mock.Anything, int64(1)).Return(stored, true, nil).Once()
		svc.On("UpdateEmployee", mock.Anything, merged).Return(merged, nil).Once()

		rr := serve(router, http.MethodPut, "/employee/1",
			`{"id":7,"firstName":"Test2","lastName":"Test2","email":"test2@gmail.com"}`)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"id":1,"firstName":"Test2","lastName":"Test2","email":"test2@gmail.com"}`, rr.Body.String())
	})

	t.Run("absent employee is not created", func(t *testing.T) {
		t.Parallel()
		router, svc := newTestRouter(t)
		svc.On("GetEmployeeByID", mock.Anything, int64(999999999)).Return(models.Employee{}, false, nil).Once()

		rr := serve(router, http.MethodPut, "/employee/999999999",
			`{"firstName":"Test2","lastName":"Test2","email":"test2@gmail.com"}`)

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Empty(t, rr.Body.String())
		svc.AssertNotCalled(t, "UpdateEmployee", mock.Anything, mock.Anything)
	})

	t.Run("email taken by another employee", func(t *testing.T) {
		t.Parallel()
		router, svc := newTestRouter(t)
		svc.On("GetEmployeeByID", mock.Anything, int64(2)).
			Return(models.Employee{ID: 2, FirstName: "B", LastName: "B", Email: "b@x.com"}, true, nil).Once()
		svc.On("UpdateEmployee", mock.Anything, mock.AnythingOfType("models.Employee")).
			Return(models.Employee{}, &models.DuplicateEmailError{Email: "a@x.com"}).Once()

		rr := serve(router, http.MethodPut, "/employee/2", `{"firstName":"B","lastName":"B","email":"a@x.com"}`)

		require.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("row deleted concurrently", func(t *testing.T) {
		t.Parallel()
		router, svc := newTestRouter(t)
		svc.On("GetEmployeeByID", mock.Anything, int64(3)).
			Return(models.Employee{ID: 3}, true, nil).Once()
		svc.On("UpdateEmployee", mock.Anything, mock.AnythingOfType("models.Employee")).
			Return(models.Employee{}, repository.ErrEmployeeNotFound).Once()

		rr := serve(router, http.MethodPut, "/employee/3", `{"firstName":"C","lastName":"C","email":"c@x.com"}`)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		router, _ := newTestRouter(t)

		rr := serve(router, http.MethodPut, "/employee/1", `not json`)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeleteEmployee(t *testing.T) {
	t.Parallel()

	for _, id := range []int64{1, 999999999} {
		router, svc := newTestRouter(t)
		svc.On("DeleteEmployeeByID", mock.Anything, id).Return(nil).Once()

		rr := serve(router, http.MethodDelete, "/employee/"+strconv.FormatInt(id, 10), "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Body.String())
	}

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		router, svc := newTestRouter(t)
		svc.On("DeleteEmployeeByID", mock.Anything, int64(5)).Return(context.DeadlineExceeded).Once()

		rr := serve(router, http.MethodDelete, "/employee/5", "")

		require.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestBasePath(t *testing.T) {
	t.Parallel()

	svc := mocks.NewService(t)
	router := server.NewRouter(sl.NewDiscardLogger(), svc, server.RouterOptions{BasePath: "/api"})
	svc.On("GetAllEmployees", mock.Anything).Return([]models.Employee{}, nil).Once()

	rr := serve(router, http.MethodGet, "/api/employee", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = serve(router, http.MethodGet, "/employee", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}
