package middleware

import (
	"encoding/json"
	"net/http"
)

// jsonEncode keeps middleware-written bodies on the same envelope shape
// the handlers emit.
func jsonEncode(w http.ResponseWriter, value any) error {
	return json.NewEncoder(w).Encode(value)
}
