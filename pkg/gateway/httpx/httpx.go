// Package httpx carries the request plumbing every resource handler shares.
// Decode accepts the REST body (JSON) and the parallel form-submission path
// (urlencoded/multipart) through one code path, which is what keeps the two
// entry points enforcing identical validation.
package httpx

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"reflect"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"github.com/sfsf02/AcceessHealth/pkg/common/logger"
	"github.com/sfsf02/AcceessHealth/pkg/common/models"
)

const maxMultipartMemory = 16 << 20

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.RegisterConverter(uuid.UUID{}, func(value string) reflect.Value {
		id, err := uuid.Parse(value)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(id)
	})
	return d
}

// Decode fills dst from a JSON body or a form post, depending on the
// request content type.
func Decode(r *http.Request, dst interface{}) error {
	contentType := r.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return err
		}
		return formDecoder.Decode(dst, r.PostForm)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return err
		}
		return formDecoder.Decode(dst, r.MultipartForm.Value)
	default:
		return json.NewDecoder(r.Body).Decode(dst)
	}
}

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Error maps the error taxonomy onto HTTP statuses: field errors to 400,
// conflicts to 409, the caller's not-found sentinel to 404, anything else
// to 500.
func Error(w http.ResponseWriter, err error, notFound error) {
	var fieldErrs models.FieldErrors
	if errors.As(err, &fieldErrs) {
		RespondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": fieldErrs})
		return
	}
	var conflict models.ConflictError
	if errors.As(err, &conflict) {
		RespondJSON(w, http.StatusConflict, map[string]interface{}{"error": conflict.Message})
		return
	}
	if notFound != nil && errors.Is(err, notFound) {
		RespondJSON(w, http.StatusNotFound, map[string]interface{}{"error": "not found"})
		return
	}
	logger.Log.WithError(err).Error("request failed")
	RespondJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "internal error"})
}

// PageParam reads the 1-indexed page query parameter.
func PageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
