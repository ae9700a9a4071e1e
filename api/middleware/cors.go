package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS applies the allowed origin policy. The frontend origin comes from the
// app base URL; localhost stays allowed for development.
func CORS(frontendOrigin string) func(http.Handler) http.Handler {
	origins := []string{"http://localhost:3000"}
	if frontendOrigin != "" && frontendOrigin != origins[0] {
		origins = append(origins, frontendOrigin)
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
