package usecase

import (
	"encoding/json"
	"fmt"
	"io"

	"cky/internal/adapter/render"
	"cky/internal/domain"
	"cky/internal/port"
)

// ReportWriter writes parse results: for every sentence the sentence itself,
// its trees, and the number of parses followed by a blank line. Format "json"
// writes a single JSON array instead.
type ReportWriter struct {
	w        io.Writer
	renderer port.Renderer
	json     bool
}

func NewReportWriter(w io.Writer, format string, margin int) (*ReportWriter, error) {
	if format == "json" {
		return &ReportWriter{w: w, json: true}, nil
	}
	r, err := render.New(format, margin)
	if err != nil {
		return nil, err
	}
	return &ReportWriter{w: w, renderer: r}, nil
}

func (r *ReportWriter) Write(results []domain.ParseResult) error {
	if r.json {
		return r.writeJSON(results)
	}
	for _, res := range results {
		if err := r.writeOne(res); err != nil {
			return err
		}
	}
	return nil
}

func (r *ReportWriter) writeOne(res domain.ParseResult) error {
	if _, err := fmt.Fprintln(r.w, res.Sentence); err != nil {
		return err
	}
	if res.Error != "" {
		_, err := fmt.Fprintf(r.w, "Parse failed: %s\n\n", res.Error)
		return err
	}
	for _, t := range res.Trees {
		if _, err := fmt.Fprintln(r.w, r.renderer.Render(t)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(r.w, "Number of parses: %d\n\n", res.Count())
	return err
}

type jsonResult struct {
	domain.ParseResult
	Count int `json:"count"`
}

func (r *ReportWriter) writeJSON(results []domain.ParseResult) error {
	out := make([]jsonResult, len(results))
	for i, res := range results {
		if res.Trees == nil {
			res.Trees = []domain.Tree{}
		}
		out[i] = jsonResult{ParseResult: res, Count: res.Count()}
	}
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
