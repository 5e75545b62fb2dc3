package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pkordes/fleet-dashboard/internal/export"
)

// ExportView handles GET /views/{viewID}/export.
// It downloads the view's current page, sorted as displayed and with every
// multi-container trip flattened into its containers.
// Use ?format=csv for CSV; default is XLSX.
func (s *Server) ExportView(w http.ResponseWriter, r *http.Request) {
	_, v, ok := s.lookupView(w, r)
	if !ok {
		return
	}

	var format *string
	if err := bindQuery(r, "format", &format); err != nil {
		s.writeError(w, r, err)
		return
	}
	raw := ""
	if format != nil {
		raw = *format
	}
	f, err := export.ParseFormat(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := s.exports.Export(&buf, f, v.ExportRecords()); err != nil {
		s.writeError(w, r, err)
		return
	}

	name := export.Filename("trips", f, s.now())
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
