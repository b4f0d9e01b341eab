package main

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPageHandler(t *testing.T) {
	h, err := pageHandler(page{Title: "Wind at LFNA", Socket: "/windweb", Unit: "kt", Factor: units["kt"]})
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	b, _ := io.ReadAll(rec.Body)
	body := string(b)

	for _, want := range []string{"<title>Wind at LFNA</title>", " kt from", "1.9438"} {
		if !strings.Contains(body, want) {
			t.Errorf("page doesn't contain %q", want)
		}
	}
}
