package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleJSON = `[
  {
    "id": 25,
    "name": "pikachu",
    "types": ["electric"],
    "stats": {"hp": 35, "attack": 55, "defense": 40, "sp_attack": 50, "sp_defense": 50, "speed": 90},
    "capture_rate": 190,
    "height": 4,
    "weight": 60
  },
  {
    "id": 6,
    "name": "charizard",
    "types": ["fire", "flying"],
    "stats": {"hp": 78, "attack": 84, "defense": 78, "sp_attack": 109, "sp_defense": 85, "speed": 100},
    "capture_rate": 45,
    "height": 17,
    "weight": 905
  }
]`

const sampleCSV = `name,id,type1,type2,hp,attack,defense,sp_attack,sp_defense,speed,capture_rate,height,weight,sprite_url
pikachu,25,electric,,35,55,40,50,50,90,190,4,60,https://img.example/25.png
charizard,6,fire,flying,78,84,78,109,85,100,45,17,905,
`

func TestGetProcessor(t *testing.T) {
	for _, format := range []string{"json", "csv", ".json", ".CSV"} {
		p, err := GetProcessor(format)
		if err != nil {
			t.Fatalf("GetProcessor(%q): %v", format, err)
		}
		if p.Name() == "" {
			t.Fatalf("GetProcessor(%q) returned unnamed processor", format)
		}
	}
	if _, err := GetProcessor("xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestJSONProcessor(t *testing.T) {
	p := &JSONProcessor{}
	records, err := p.Process([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != 25 || records[0].Name != "pikachu" {
		t.Fatalf("first record = %d %q", records[0].ID, records[0].Name)
	}
	if records[1].Stats.SpAttack != 109 {
		t.Fatalf("charizard sp_attack = %d, want 109", records[1].Stats.SpAttack)
	}
	if len(records[1].Types) != 2 || records[1].Types[1] != "flying" {
		t.Fatalf("charizard types = %v", records[1].Types)
	}
	for _, rec := range records {
		if rec.FetchedAt.IsZero() {
			t.Fatalf("%s: fetch time not stamped", rec.Name)
		}
	}
}

func TestJSONProcessorWrappedObject(t *testing.T) {
	wrapped := `{"pokemon": ` + sampleJSON + `}`
	records, err := (&JSONProcessor{}).Process([]byte(wrapped))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
}

func TestJSONProcessorRejectsGarbage(t *testing.T) {
	if _, err := (&JSONProcessor{}).Process([]byte(`{"pokemon": 7}`)); err == nil {
		t.Fatal("expected error for malformed export")
	}
}

func TestJSONProcessorRejectsBadRecords(t *testing.T) {
	cases := map[string]string{
		"zero id":     `[{"id": 0, "name": "x", "types": ["fire"]}]`,
		"no name":     `[{"id": 1, "types": ["fire"]}]`,
		"no types":    `[{"id": 1, "name": "x"}]`,
		"three types": `[{"id": 1, "name": "x", "types": ["a", "b", "c"]}]`,
	}
	for name, payload := range cases {
		if _, err := (&JSONProcessor{}).Process([]byte(payload)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestCSVProcessor(t *testing.T) {
	records, err := (&CSVProcessor{}).Process([]byte(sampleCSV))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	pika := records[0]
	if pika.ID != 25 || pika.Name != "pikachu" {
		t.Fatalf("first record = %d %q", pika.ID, pika.Name)
	}
	if len(pika.Types) != 1 || pika.Types[0] != "electric" {
		t.Fatalf("pikachu types = %v", pika.Types)
	}
	if pika.Stats.Speed != 90 || pika.CaptureRate != 190 {
		t.Fatalf("pikachu speed=%d capture=%d", pika.Stats.Speed, pika.CaptureRate)
	}
	if pika.SpriteURL != "https://img.example/25.png" {
		t.Fatalf("pikachu sprite = %q", pika.SpriteURL)
	}

	zard := records[1]
	if len(zard.Types) != 2 || zard.Types[0] != "fire" || zard.Types[1] != "flying" {
		t.Fatalf("charizard types = %v", zard.Types)
	}
	if zard.Weight != 905 {
		t.Fatalf("charizard weight = %d", zard.Weight)
	}
}

func TestCSVProcessorShuffledColumns(t *testing.T) {
	shuffled := "speed,capture_rate,name,type1,id\n90,190,pikachu,electric,25\n"
	records, err := (&CSVProcessor{}).Process([]byte(shuffled))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if records[0].ID != 25 || records[0].Stats.Speed != 90 {
		t.Fatalf("record = %+v", records[0])
	}
}

func TestCSVProcessorRequiresIDAndName(t *testing.T) {
	if _, err := (&CSVProcessor{}).Process([]byte("name,hp\npikachu,35\n")); err == nil {
		t.Fatal("expected error for missing id column")
	}
	if _, err := (&CSVProcessor{}).Process([]byte("id,hp\n25,35\n")); err == nil {
		t.Fatal("expected error for missing name column")
	}
}

func TestCSVProcessorRejectsBadID(t *testing.T) {
	bad := "id,name,type1\ntwelve,pikachu,electric\n"
	_, err := (&CSVProcessor{}).Process([]byte(bad))
	if err == nil || !strings.Contains(err.Error(), "invalid id") {
		t.Fatalf("err = %v, want invalid id", err)
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "species.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	records, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	if _, err := File(filepath.Join(dir, "species.xml")); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if _, err := File(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
