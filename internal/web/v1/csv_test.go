package v1

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthickraj/user-profile-service/internal/core/domain"
)

type failingWriter struct{ err error }

func (f *failingWriter) Write(p []byte) (int, error) { return 0, f.err }

func TestWriteListCSV_SurfacesWriteFailure(t *testing.T) {
	w := &failingWriter{err: errors.New("client went away")}

	err := writeListCSV(w, []domain.UserListItem{{User: domain.User{ID: 1}}})

	require.Error(t, err)
	assert.ErrorContains(t, err, "client went away")
}

func TestWriteUserCSV_SurfacesWriteFailure(t *testing.T) {
	w := &failingWriter{err: errors.New("broken pipe")}
	view := &domain.UserView{User: domain.User{ID: 7}}

	err := writeUserCSV(w, view)

	require.Error(t, err)
	assert.ErrorContains(t, err, "broken pipe")
}
