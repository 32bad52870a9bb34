package formspree_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/csg33k/era-intake/internal/adapters/formspree"
	"github.com/csg33k/era-intake/internal/domain"
)

func payload() *domain.Payload {
	return &domain.Payload{
		Fields: []domain.Part{
			{Name: "full_name", Value: "Alexander Hamilton"},
			{Name: domain.DOBCombined, Value: "15 June 1990"},
			{Name: domain.FieldApplicationNumber, Value: "ERA-4821"},
		},
		Files: []domain.FilePart{
			{Name: "front_id", Filename: "front.jpg", ContentType: "image/jpeg", Data: []byte("front-bytes")},
			{Name: "back_id", Filename: `we"ird.png`, ContentType: "image/png", Data: []byte("back-bytes")},
		},
	}
}

func TestSubmit_Success(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		require.Equal(t, "Alexander Hamilton", r.FormValue("full_name"))
		require.Equal(t, "15 June 1990", r.FormValue("Full Date of Birth"))
		require.Equal(t, "ERA-4821", r.FormValue("application_number"))

		f, hdr, err := r.FormFile("front_id")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		require.Equal(t, "front-bytes", string(data))
		require.Equal(t, "front.jpg", hdr.Filename)
		require.Equal(t, "image/jpeg", hdr.Header.Get("Content-Type"))

		_, hdr, err = r.FormFile("back_id")
		require.NoError(t, err)
		require.Equal(t, `we"ird.png`, hdr.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"next":"/thanks","ok":true}`)
	}))
	defer srv.Close()

	require.NoError(t, formspree.New(srv.URL, 0).Submit(context.Background(), payload()))
	require.Equal(t, 1, calls)
}

func TestSubmit_RemoteErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		message    string
		attachment bool
	}{
		{
			name:       "attachment by wording",
			status:     422,
			body:       `{"error":"Validation errors","errors":[{"code":"INVALID","field":"upload","message":"file is too large"}]}`,
			message:    "file is too large",
			attachment: true,
		},
		{
			name:       "attachment by code",
			status:     422,
			body:       `{"errors":[{"code":"TYPE_FILE","field":"x","message":"unsupported upload"}]}`,
			message:    "unsupported upload",
			attachment: true,
		},
		{
			name:       "attachment by field",
			status:     400,
			body:       `{"errors":[{"code":"REQUIRED","field":"back_id","message":"missing"}]}`,
			message:    "missing",
			attachment: true,
		},
		{
			name:    "generic validation",
			status:  422,
			body:    `{"error":"Validation errors","errors":[{"code":"TYPE_EMAIL","field":"email","message":"should be an email"}]}`,
			message: "should be an email",
		},
		{
			name:    "summary only",
			status:  403,
			body:    `{"error":"Form not active"}`,
			message: "Form not active",
		},
		{
			name:   "not json",
			status: 502,
			body:   `<html>Bad Gateway</html>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			err := formspree.New(srv.URL, 0).Submit(context.Background(), payload())
			var remote *domain.RemoteError
			require.ErrorAs(t, err, &remote)
			require.Equal(t, tt.status, remote.Status)
			require.Equal(t, tt.message, remote.Message)
			require.Equal(t, tt.attachment, remote.Attachment)
		})
	}
}

func TestSubmit_Connectivity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := formspree.New(url, 0).Submit(context.Background(), payload())
	require.ErrorIs(t, err, domain.ErrConnectivity)
}
