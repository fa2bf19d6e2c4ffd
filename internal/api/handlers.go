package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"tilepath/internal/pathing"
	"tilepath/internal/render"
)

// requestValidate checks decoded request bodies.
var requestValidate = validator.New()

// pointDTO uses pointers so a missing coordinate is told apart from zero.
type pointDTO struct {
	X *int `json:"x" validate:"required"`
	Y *int `json:"y" validate:"required"`
}

func (p pointDTO) point() pathing.Point {
	return pathing.Pt(*p.X, *p.Y)
}

type pathRequest struct {
	From   *pointDTO `json:"from" validate:"required"`
	To     *pointDTO `json:"to" validate:"required"`
	Smooth *bool     `json:"smooth"`
}

type smoothRequest struct {
	Tiles []pointDTO `json:"tiles" validate:"required,min=1,dive"`
}

// PathResponse is the JSON body for a path query.
type PathResponse struct {
	ID       string          `json:"id,omitempty"`
	Outcome  string          `json:"outcome"`
	Source   string          `json:"source,omitempty"`
	Tiles    []pathing.Point `json:"tiles"`
	Steps    int             `json:"steps"`
	Length   float64         `json:"length"`
	Smoothed bool            `json:"smoothed"`
	Error    string          `json:"error,omitempty"`
}

// newPathResponse converts a result, smoothing it first when asked. A
// smoothed path is measured again so the length is always known.
func newPathResponse(pf PathfinderInterface, res pathing.Result, smooth bool) PathResponse {
	resp := PathResponse{
		Outcome: res.Outcome.String(),
		Source:  res.Source.String(),
	}
	if smooth && res.Outcome == pathing.Found {
		pf.Smooth(res.Path)
		resp.Smoothed = true
	}
	length, known := res.Path.Length()
	if !known {
		length = res.Path.Measure()
	}
	resp.Tiles = res.Path.Tiles()
	resp.Steps = res.Path.Steps()
	resp.Length = length
	return resp
}

// Handler methods for routerHandlers

func (h *routerHandlers) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	info := h.pf.Graph()

	entrances := 0
	for _, c := range info.Clusters {
		entrances += len(c.Entrances)
	}

	writeJSON(w, map[string]interface{}{
		"width":          info.Width,
		"height":         info.Height,
		"cluster_size":   info.ClusterSize,
		"columns":        info.Columns,
		"rows":           info.Rows,
		"clusters":       len(info.Clusters),
		"entrances":      entrances,
		"nodes":          info.Nodes,
		"internal_edges": info.InternalEdges,
		"external_edges": info.ExternalEdges,
	})
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.pf.Stats())
}

func (h *routerHandlers) handleFindPath(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	smooth := h.smoothByDefault
	if req.Smooth != nil {
		smooth = *req.Smooth
	}

	start := time.Now()
	res := h.pf.FindPath(req.From.point(), req.To.point())
	RecordQuery(res, time.Since(start))

	writeJSON(w, newPathResponse(h.pf, res, smooth))
}

func (h *routerHandlers) handleSmooth(w http.ResponseWriter, r *http.Request) {
	var req smoothRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Tiles) > h.maxSmoothTiles {
		writeError(w, fmt.Sprintf("at most %d tiles allowed", h.maxSmoothTiles), http.StatusRequestEntityTooLarge)
		return
	}

	tiles := make([]pathing.Point, len(req.Tiles))
	for i, t := range req.Tiles {
		tiles[i] = t.point()
	}
	path := pathing.NewPath(tiles...)
	if path.Len() != len(tiles) {
		writeError(w, "tiles must be distinct neighbours in order", http.StatusBadRequest)
		return
	}

	removed := h.pf.Smooth(path)
	writeJSON(w, map[string]interface{}{
		"tiles":   path.Tiles(),
		"removed": removed,
		"length":  path.Measure(),
	})
}

func (h *routerHandlers) handleRender(w http.ResponseWriter, r *http.Request) {
	grid := h.pf.Grid()
	if grid == nil {
		writeError(w, "graph not built", http.StatusServiceUnavailable)
		return
	}

	scene := render.Scene{Grid: grid, Graph: h.pf.Graph()}

	q := r.URL.Query()
	if q.Has("fx") || q.Has("fy") || q.Has("tx") || q.Has("ty") {
		var coords [4]int
		for i, key := range []string{"fx", "fy", "tx", "ty"} {
			v, err := strconv.Atoi(q.Get(key))
			if err != nil {
				writeError(w, "fx, fy, tx and ty must all be integers", http.StatusBadRequest)
				return
			}
			coords[i] = v
		}
		res := h.pf.FindPath(pathing.Pt(coords[0], coords[1]), pathing.Pt(coords[2], coords[3]))
		if res.Outcome == pathing.Found {
			scene.Path = res.Path.Tiles()
		}
	}

	var buf bytes.Buffer
	if err := render.WritePNG(&buf, scene, h.render); err != nil {
		if errors.Is(err, render.ErrTooLarge) {
			writeError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		log.Printf("⚠️ Render failed: %v", err)
		writeError(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (h *routerHandlers) handleReload(w http.ResponseWriter, r *http.Request) {
	if h.reloader == nil {
		writeError(w, "reload not configured", http.StatusNotImplemented)
		return
	}

	start := time.Now()
	if err := h.reloader.Reload(); err != nil {
		log.Printf("❌ Map reload failed: %v", err)
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	RecordBuild(time.Since(start))

	log.Printf("🗺️ Map reloaded in %v", time.Since(start))
	h.handleGetGraph(w, r)
}

// decode reads a size-capped JSON body and validates it.
func (h *routerHandlers) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	if err := requestValidate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError turns validator output into a short client message.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid request: %s failed %q", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("invalid request: %w", err)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
