package core

import (
	"encoding/json"
	"testing"
)

func TestProductJSONShape(t *testing.T) {
	raw := []byte(`{"productId":"p1","name":"Shoe A","price":20,"stockQuantity":500}`)
	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Price.Cents != 2000 || p.Rating != nil {
		t.Fatalf("unexpected decode: %+v", p)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Rating is nullable and must stay present on the wire.
	want := `{"productId":"p1","name":"Shoe A","price":20,"rating":null,"stockQuantity":500}`
	if string(out) != want {
		t.Fatalf("wire shape mismatch:\n got %s\nwant %s", out, want)
	}
}
