package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"

	"github.com/user/taskmanager-go/config"
)

func TestRegisteredSpecIsValidJSON(t *testing.T) {
	Configure(&config.APIConfig{Title: "Tasks", Version: "9.9.9"})

	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc failed: %v", err)
	}
	var parsed struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		t.Fatalf("Spec is not valid JSON: %v", err)
	}
	if parsed.Info.Title != "Tasks" || parsed.Info.Version != "9.9.9" {
		t.Errorf("Expected configured info, got %+v", parsed.Info)
	}
	for _, path := range []string{"/api/auth/register", "/api/tasks/{id}", "/api/stats", "/health"} {
		if _, ok := parsed.Paths[path]; !ok {
			t.Errorf("Expected path %s in spec", path)
		}
	}
}
