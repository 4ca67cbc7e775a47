package scenario

import (
	"fmt"
	"os"

	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/go-gl/mathgl/mgl64"
)

// Load replaces the universe's bodies with the document's and returns how
// many were created. An invalid document leaves the universe untouched.
func Load(u *universe.Universe, doc *Document) (int, error) {
	if err := doc.Validate(); err != nil {
		return 0, err
	}

	u.DeleteAll()
	n := 0
	for i, p := range doc.Planets {
		vel := mgl64.Vec3(p.Velocity).Mul(u.VelocityFactor)
		if _, err := u.AddPlanet(mgl64.Vec3(p.Position), vel, p.Mass); err != nil {
			return n, fmt.Errorf("planet %d: %w", i, err)
		}
		n++
	}
	return n, nil
}

func LoadFile(u *universe.Universe, path string) (int, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return 0, err
	}
	return Load(u, doc)
}

func ReadFile(path string) (*Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario: %w", err)
	}
	defer file.Close()

	doc, err := Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Snapshot captures the universe as a document in authored units.
func Snapshot(u *universe.Universe) *Document {
	doc := &Document{Planets: make([]Planet, 0, u.Size())}
	for _, b := range u.All() {
		vel := b.Velocity
		if u.VelocityFactor != 0 {
			vel = vel.Mul(1 / u.VelocityFactor)
		}
		doc.Planets = append(doc.Planets, Planet{
			Mass:     b.Mass,
			Position: b.Position,
			Velocity: vel,
		})
	}
	return doc
}

func WriteFile(path string, doc *Document) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create scenario: %w", err)
	}
	if err := Encode(file, doc, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// SaveFile writes the universe's current bodies to path.
func SaveFile(u *universe.Universe, path string) error {
	return WriteFile(path, Snapshot(u))
}
