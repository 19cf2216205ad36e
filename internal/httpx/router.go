package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storeops/ads-ingest/internal/ingest"
	"github.com/storeops/ads-ingest/internal/models"
	"github.com/storeops/ads-ingest/internal/obs"
	"github.com/storeops/ads-ingest/internal/report"
	"github.com/storeops/ads-ingest/internal/store"
	"github.com/storeops/ads-ingest/internal/utils"
)

const maxUploadBytes = 16 << 20

func NewRouter(log *slog.Logger, svc *ingest.Service, st *store.MemoryStore) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", obs.Handler())

	mux.Post("/ingest/rows", func(w http.ResponseWriter, r *http.Request) {
		var rows models.RawTable
		if err := decodeBody(r, &rows); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, svc.IngestTable("rows", rows))
	})

	mux.Post("/ingest/objects", func(w http.ResponseWriter, r *http.Request) {
		var objs []map[string]any
		if err := decodeBody(r, &objs); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, svc.IngestObjects("objects", objs))
	})

	mux.Post("/ingest/xlsx", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "bad multipart form", http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file field required", http.StatusBadRequest)
			return
		}
		defer file.Close()
		rows, err := ingest.ReadWorkbook(file, r.URL.Query().Get("sheet"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, svc.IngestTable("xlsx", rows))
	})

	mux.Post("/ingest/pull", func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Pull(r.Context(), r.URL.Query().Get("url"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, res)
	})

	mux.Get("/records", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, st.All())
	})

	mux.Get("/reports/summary", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, report.Summarize(st.All()))
	})

	mux.Get("/reports/campaigns", func(w http.ResponseWriter, r *http.Request) {
		top := atoiDef(r.URL.Query().Get("top"), 10)
		sortField := r.URL.Query().Get("sort")
		if sortField == "" {
			sortField = models.FieldCost
		}
		groups := report.GroupBy(st.All(), models.FieldCampaign)
		writeJSON(w, report.TopN(groups, top, sortField))
	})

	mux.Get("/reports/daily", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, report.Daily(st.All()))
	})

	return mux
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxUploadBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
