package profile

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterHandlers(t *testing.T) {
	for _, tt := range []struct {
		description string
		options     []Option
		path        string
		status      int
	}{
		{description: "Index", path: "/debug/pprof/", status: http.StatusOK},
		{description: "Cmdline", path: "/debug/pprof/cmdline", status: http.StatusOK},
		{description: "Heap", path: "/debug/pprof/heap", status: http.StatusOK},
		{description: "Trace/Disabled", options: []Option{WithTrace(false)}, path: "/debug/pprof/trace", status: http.StatusNotFound},
		{description: "Profile/Disabled", options: []Option{WithCPUProfile(false)}, path: "/debug/pprof/profile", status: http.StatusNotFound},
	} {
		t.Run(tt.description, func(t *testing.T) {
			mux := http.NewServeMux()
			RegisterHandlers(mux, tt.options...)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
