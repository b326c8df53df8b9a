package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	herrors "github.com/matzehuels/housesketch/pkg/errors"
	"github.com/matzehuels/housesketch/pkg/pipeline"
)

// optionsFromValues reads plan options from a query string or form.
func optionsFromValues(v url.Values) (pipeline.Options, error) {
	var opts pipeline.Options
	var err error

	if opts.Width, err = floatValue(v, "width", herrors.ErrCodeInvalidLot); err != nil {
		return opts, err
	}
	if opts.Length, err = floatValue(v, "length", herrors.ErrCodeInvalidLot); err != nil {
		return opts, err
	}
	if opts.Floors, err = intValue(v, "floors", herrors.ErrCodeInvalidFloors); err != nil {
		return opts, err
	}
	if opts.Detail, err = intValue(v, "detail", herrors.ErrCodeInvalidDetail); err != nil {
		return opts, err
	}
	opts.Unit = v.Get("unit")
	opts.Style = v.Get("style")
	opts.Features = listValue(v, "features")
	opts.Views = listValue(v, "views")
	return opts, nil
}

// optionsFromRequest reads options from the query string of GET requests
// and from the JSON body otherwise.
func optionsFromRequest(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	if r.Method == http.MethodGet {
		return optionsFromValues(r.URL.Query())
	}
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return opts, herrors.Wrap(herrors.ErrCodeInvalidInput, err, "invalid JSON body: %v", err)
	}
	return opts, nil
}

func floatValue(v url.Values, key string, code herrors.Code) (float64, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, herrors.New(code, "%s must be a number, got %q", key, s)
	}
	return f, nil
}

func intValue(v url.Values, key string, code herrors.Code) (int, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, herrors.New(code, "%s must be a whole number, got %q", key, s)
	}
	return n, nil
}

// listValue accepts both repeated keys and comma separated values.
func listValue(v url.Values, key string) []string {
	var out []string
	for _, raw := range v[key] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// queryString encodes options back into a query string for download links.
func queryString(opts pipeline.Options) string {
	v := url.Values{}
	v.Set("width", strconv.FormatFloat(opts.Width, 'f', -1, 64))
	v.Set("length", strconv.FormatFloat(opts.Length, 'f', -1, 64))
	if opts.Unit != "" {
		v.Set("unit", opts.Unit)
	}
	if opts.Floors != 0 {
		v.Set("floors", strconv.Itoa(opts.Floors))
	}
	if len(opts.Features) > 0 {
		v.Set("features", strings.Join(opts.Features, ","))
	}
	if opts.Style != "" {
		v.Set("style", opts.Style)
	}
	if opts.Detail != 0 {
		v.Set("detail", strconv.Itoa(opts.Detail))
	}
	return v.Encode()
}
