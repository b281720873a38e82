package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the calculator endpoints onto r: the JSON POST /calc
// endpoint, the query-string shortcuts and the chained calculation.
func RegisterRoutes(r chi.Router) {
	r.Post("/calc", Calc)
	r.Post("/calc/chain", Chain)
	r.Get("/operations", Operations)

	r.Get("/add", Add)
	r.Get("/subtract", Subtract)
	r.Get("/multiply", Multiply)
	r.Get("/divide", Divide)
}
