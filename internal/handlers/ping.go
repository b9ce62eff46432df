// internal/handlers/ping.go
package handlers

import (
	"fmt"
	"net/http"
)

// PingHandler is a trivial health probe.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "Backend is running!")
}
