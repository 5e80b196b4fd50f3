package models_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/Houeta/employee-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeBuilder(t *testing.T) {
	t.Parallel()

	employee := models.NewEmployee().
		WithID(7).
		WithFirstName("Test").
		WithLastName("User").
		WithEmail("test@gmail.com").
		Build()

	assert.Equal(t, models.Employee{ID: 7, FirstName: "Test", LastName: "User", Email: "test@gmail.com"}, employee)
}

func TestEmployeeBuilder_BuildReturnsCopy(t *testing.T) {
	t.Parallel()

	builder := models.NewEmployee().WithFirstName("First")
	first := builder.Build()
	second := builder.WithFirstName("Second").Build()

	assert.Equal(t, "First", first.FirstName)
	assert.Equal(t, "Second", second.FirstName)
}

func TestEmployee_Equality(t *testing.T) {
	t.Parallel()

	a := models.Employee{ID: 1, FirstName: "Test", LastName: "Test", Email: "test@gmail.com"}
	b := models.Employee{ID: 1, FirstName: "Test", LastName: "Test", Email: "test@gmail.com"}
	c := b
	c.Email = "other@gmail.com"

	assert.True(t, a == b)
	assert.False(t, a == c)
}

func TestEmployee_JSON(t *testing.T) {
	t.Parallel()

	t.Run("id omitted before persistence", func(t *testing.T) {
		t.Parallel()

		raw, err := json.Marshal(models.Employee{FirstName: "Test", LastName: "Test", Email: "test@gmail.com"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"firstName":"Test","lastName":"Test","email":"test@gmail.com"}`, string(raw))
	})

	t.Run("camel case field names", func(t *testing.T) {
		t.Parallel()

		var employee models.Employee
		err := json.Unmarshal([]byte(`{"id":3,"firstName":"A","lastName":"B","email":"c@d.e"}`), &employee)
		require.NoError(t, err)
		assert.Equal(t, models.Employee{ID: 3, FirstName: "A", LastName: "B", Email: "c@d.e"}, employee)
	})
}

func TestDuplicateEmailError(t *testing.T) {
	t.Parallel()

	var err error = &models.DuplicateEmailError{Email: "test@gmail.com"}
	wrapped := fmt.Errorf("failed to save employee: %w", err)

	assert.EqualError(t, err, "employee with same email already exists: test@gmail.com")
	require.ErrorIs(t, wrapped, models.ErrDuplicateEmail)

	var dupErr *models.DuplicateEmailError
	require.True(t, errors.As(wrapped, &dupErr))
	assert.Equal(t, "test@gmail.com", dupErr.Email)
}
