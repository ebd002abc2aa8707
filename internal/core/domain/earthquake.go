package domain

import "fmt"

type Location string

const (
	LocationTokyo   Location = "tokyo"
	LocationNiigata Location = "niigata"
)

// Name is the Japanese place name used by the simulator.
func (l Location) Name() string {
	if l == LocationNiigata {
		return "新潟"
	}
	return "東京"
}

// EarthquakeRequest is the simulator's choice sent with the trigger.
type EarthquakeRequest struct {
	Location  Location `json:"location"`
	Intensity int      `json:"intensity"`
}

// Normalize fills defaults (tokyo, intensity 3) and rejects anything the
// simulator does not offer.
func (r EarthquakeRequest) Normalize() (EarthquakeRequest, error) {
	if r.Location == "" {
		r.Location = LocationTokyo
	}
	if r.Intensity == 0 {
		r.Intensity = 3
	}
	if r.Location != LocationTokyo && r.Location != LocationNiigata {
		return r, fmt.Errorf("%w: unknown location %q", ErrInvalidEarthquake, r.Location)
	}
	if r.Intensity != 3 && r.Intensity != 7 {
		return r, fmt.Errorf("%w: unsupported intensity %d", ErrInvalidEarthquake, r.Intensity)
	}
	return r, nil
}
