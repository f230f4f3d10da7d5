package chi

import (
	"fmt"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// pathParam binds a required simple-style path parameter.
func pathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, gochi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return v, nil
}

// queryInt binds an optional form-style integer query parameter, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return 0, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	if v == nil {
		return def, nil
	}
	return *v, nil
}

// bindID reads the {id} path parameter, writing a 400 response on failure.
func bindID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := pathParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return "", false
	}
	return id, true
}

// bindPage reads offset and limit query parameters, writing a 400 response on failure.
func bindPage(w http.ResponseWriter, r *http.Request) (offset, limit int, ok bool) {
	offset, err := queryInt(r, "offset", 0)
	if err == nil {
		limit, err = queryInt(r, "limit", 0)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return 0, 0, false
	}
	return offset, limit, true
}
