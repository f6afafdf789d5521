package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
)

// decodeJSON reads the request body into v. An empty body leaves v untouched when allowEmpty is set.
func decodeJSON(r *http.Request, v any, allowEmpty bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}
	if allowEmpty && errors.Is(err, io.EOF) {
		return nil
	}
	return errs.NewValidationError("invalid request body")
}
