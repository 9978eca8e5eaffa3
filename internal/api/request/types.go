package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes bounds request bodies; every request is a few short fields
const MaxBodyBytes = 4 << 10

// CheckNameRequest is the request body for checking a name
type CheckNameRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// SubmitScoreRequest is the request body for submitting a score.
// Score is a pointer so a missing score is distinguishable from 0.
type SubmitScoreRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Score    *int   `json:"score"`
}

// Decode reads a JSON body into dst, rejecting trailing data
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("decode body: unexpected trailing data")
	}
	return nil
}
