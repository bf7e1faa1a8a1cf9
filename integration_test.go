package kdk_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/Thunderforge/kestrel-development-kit/pkg/assembler"
	"github.com/Thunderforge/kestrel-development-kit/pkg/diag"
	"github.com/Thunderforge/kestrel-development-kit/pkg/resource"
	"github.com/Thunderforge/kestrel-development-kit/pkg/schema"
)

const shipTable = `
type: ship
fields:
  - name: flags
    required: true
    values:
      - types: [integer, bitmask]
        offset: 0
        size: 2
  - name: shield
    values:
      - types: [integer]
        offset: 2
        size: 2
        signed: true
        default: -1
  - name: weapon
    values:
      - types: [resource-reference]
        offset: 4
        size: 2
  - name: sprite
    values:
      - types: [resource-reference]
        offset: 6
        size: 2
  - name: subtitle
    values:
      - types: [string, cstr]
        offset: 8
        size: 8
`

const shipManifest = `
resources:
  - type: ship
    id: 128
    name: Light Freighter
    fields:
      - name: flags
        values:
          - literal: "0x0001"
            type: identifier
      - name: shield
        values:
          - literal: "500"
            type: integer
      - name: weapon
        values:
          - literal: "130"
            type: resource-id
      - name: sprite
        values:
          - literal: sprites/freighter.png
            type: file-reference
      - name: subtitle
        values:
          - literal: Hauler
            type: string
`

type spriteResolver struct{}

func (spriteResolver) Resolve(path string) (int16, error) {
	if path == "sprites/freighter.png" {
		return 1000, nil
	}
	return 0, fmt.Errorf("unknown sprite %q", path)
}

// TestE2E_AssembleAndContainerRoundTrip drives the whole pipeline: YAML
// schema table and manifest in, assembled records through a container
// write/read cycle out.
func TestE2E_AssembleAndContainerRoundTrip(t *testing.T) {
	table, err := schema.ParseTable([]byte(shipTable))
	if err != nil {
		t.Fatalf("ParseTable error: %v", err)
	}
	resources, err := resource.ParseManifest([]byte(shipManifest))
	if err != nil {
		t.Fatalf("ParseManifest error: %v", err)
	}

	registry := resource.NewRegistry()
	for _, res := range resources {
		collector := diag.NewCollector()
		a := assembler.New(res,
			assembler.WithReporter(collector),
			assembler.WithFileResolver(spriteResolver{}),
		)
		blob, err := a.Assemble(table.Fields)
		if err != nil {
			t.Fatalf("Assemble error: %v", err)
		}
		if collector.HasErrors() {
			t.Fatalf("diagnostics: %v", collector.Diagnostics())
		}
		if err := registry.Add(res, append([]byte(nil), blob.Bytes()...)); err != nil {
			t.Fatalf("Add error: %v", err)
		}
	}

	var container bytes.Buffer
	if err := resource.WriteContainer(&container, registry); err != nil {
		t.Fatalf("WriteContainer error: %v", err)
	}
	got, err := resource.ReadContainer(&container)
	if err != nil {
		t.Fatalf("ReadContainer error: %v", err)
	}

	ship := got.Find("ship", 128)
	if ship == nil {
		t.Fatal("ship record missing after round trip")
	}
	want := []byte{
		0x00, 0x01, // flags = kCarried
		0x01, 0xF4, // shield = 500
		0x00, 0x82, // weapon -> #130
		0x03, 0xE8, // sprite resolved -> #1000
		'H', 'a', 'u', 'l', 'e', 'r', 0, 0, // subtitle, fixed C string
	}
	if !bytes.Equal(ship.Data, want) {
		t.Errorf("record = % X\nwant     % X", ship.Data, want)
	}
	if ship.Resource.Name() != "Light Freighter" {
		t.Errorf("name = %q", ship.Resource.Name())
	}
}

// TestE2E_ValidationFailuresAccumulate checks that a resource with several
// defects reports all of them in one pass.
func TestE2E_ValidationFailuresAccumulate(t *testing.T) {
	table, err := schema.ParseTable([]byte(shipTable))
	if err != nil {
		t.Fatalf("ParseTable error: %v", err)
	}

	manifest := `
resources:
  - type: ship
    id: 129
    name: Broken
    fields:
      - name: shield
        values:
          - literal: Hi
            type: string
      - name: sprite
        values:
          - literal: sprites/missing.png
            type: file-reference
`
	resources, err := resource.ParseManifest([]byte(manifest))
	if err != nil {
		t.Fatalf("ParseManifest error: %v", err)
	}

	collector := diag.NewCollector()
	a := assembler.New(resources[0],
		assembler.WithReporter(collector),
		assembler.WithFileResolver(spriteResolver{}),
	)
	blob, err := a.Assemble(table.Fields)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}

	// Missing required flags, type mismatch on shield, unresolvable sprite.
	if got := len(collector.Errors()); got != 3 {
		t.Errorf("errors = %d, want 3:", got)
		for _, d := range collector.Diagnostics() {
			t.Logf("  %s", d)
		}
	}

	// The record still spans the full declared layout.
	if blob.Size() != 16 {
		t.Errorf("Size() = %d, want 16", blob.Size())
	}
}
