package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"estimmo/internal/model"
)

//go:embed web/index.html
var webFS embed.FS

// formPageData feeds the template footer on the estimation form.
type formPageData struct {
	TrainedAt string
	TrainRows int
	TestR2    float64
	Version   int
}

// ServeEstimationForm serves the embedded estimation form page with the
// loaded model's training metadata in the footer.
func ServeEstimationForm(meta model.Metadata, logger *slog.Logger) http.HandlerFunc {
	tmpl := template.Must(template.ParseFS(webFS, "web/index.html"))
	data := formPageData{
		TrainedAt: meta.TrainedAt.Format("2006-01-02"),
		TrainRows: meta.TrainRows,
		TestR2:    meta.TestR2,
		Version:   meta.Version,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			logger.ErrorContext(r.Context(), "rendering estimation form",
				slog.String("error", err.Error()))
			http.Error(w, "Error loading page", http.StatusInternalServerError)
		}
	}
}
