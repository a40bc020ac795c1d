package session

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestCredential(t *testing.T) {
	t.Parallel()

	var nilCredential *Credential
	if nilCredential.Header() != "" {
		t.Fatalf("nil credential must have no header")
	}

	c := NewCredential()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c.Apply(req)
	if req.Header.Get("Authorization") != "" {
		t.Fatalf("expected no header before install")
	}

	c.Install("  abc  ")
	c.Apply(req)
	if got := req.Header.Get("Authorization"); got != "Bearer abc" {
		t.Fatalf("unexpected header %q", got)
	}

	c.Install("")
	if _, ok := c.Token(); ok {
		t.Fatalf("empty install must remove the credential")
	}
}

func TestCredentialConcurrentWritesNeverTear(t *testing.T) {
	t.Parallel()

	c := NewCredential()
	tokens := []string{"alpha", "bravo", "charlie"}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Install(tokens[i%len(tokens)])
		}(i)
		go func() {
			defer wg.Done()
			if header := c.Header(); header != "" {
				valid := false
				for _, token := range tokens {
					if header == "Bearer "+token {
						valid = true
					}
				}
				if !valid {
					t.Errorf("torn header %q", header)
				}
			}
		}()
	}
	wg.Wait()
}
