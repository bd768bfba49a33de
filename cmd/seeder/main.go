package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-crm/internal/auth"
	"github.com/ukydev/fleet-crm/internal/models"
)

var (
	firstNames = []string{"אבי", "דני", "יוסי", "משה", "נועה", "שירה", "רונית", "עומר", "תמר", "איתי"}
	lastNames  = []string{"כהן", "לוי", "מזרחי", "פרץ", "ביטון", "אברהם", "פרידמן", "דהן", "אזולאי", "שמעוני"}
	regions    = []string{"צפון", "מרכז", "דרום", "ירושלים", "שרון"}
	bikes      = map[string][]string{
		"Honda":  {"PCX 125", "SH 150"},
		"Yamaha": {"NMAX 125", "XMAX 300"},
		"Sym":    {"Jet 14", "Symphony ST"},
		"Kymco":  {"Agility 125", "People S"},
	}
	manufacturers = []string{"Honda", "Yamaha", "Sym", "Kymco"}
)

// seeder drives the REST API to create demo records.
type seeder struct {
	apiURL string
	token  string
	client *http.Client
	rnd    *rand.Rand
}

func newSeeder(apiURL, token string, seed int64) *seeder {
	return &seeder{
		apiURL: apiURL,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// post sends body as JSON and returns the id of the created record.
func (s *seeder) post(path string, body any) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	req, err := http.NewRequest(http.MethodPost, s.apiURL+path, bytes.NewBuffer(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to post %s: %w", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%s creation failed with status %d: %s", path, resp.StatusCode, env.Message)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil || created.ID == "" {
		return "", fmt.Errorf("invalid id in %s response", path)
	}
	return created.ID, nil
}

func (s *seeder) pick(list []string) string {
	return list[s.rnd.Intn(len(list))]
}

func (s *seeder) digits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + s.rnd.Intn(10))
	}
	return string(b)
}

// plate renders an Israeli-style plate such as 123-45-678.
func (s *seeder) plate() string {
	d := s.digits(8)
	return d[:3] + "-" + d[3:5] + "-" + d[5:]
}

func (s *seeder) rider() models.Rider {
	return models.Rider{
		FirstName: s.pick(firstNames),
		LastName:  s.pick(lastNames),
		IDNumber:  s.digits(9),
		Phone:     "05" + s.digits(8),
		Region:    s.pick(regions),
	}
}

func (s *seeder) vehicle() models.Vehicle {
	manufacturer := s.pick(manufacturers)
	return models.Vehicle{
		LicensePlate:    s.plate(),
		Manufacturer:    manufacturer,
		Model:           s.pick(bikes[manufacturer]),
		Year:            2018 + s.rnd.Intn(7),
		CurrentOdometer: float64(s.rnd.Intn(40000)),
	}
}

// result counts what a run created.
type result struct {
	Riders, Vehicles, Assignments, Checks int
}

// run creates the riders and vehicles, pairs them up and files a monthly
// check for every pair. Failures are logged and skipped.
func (s *seeder) run(riders, vehicles int, now time.Time) result {
	var res result
	riderIDs := make([]string, 0, riders)
	for i := 0; i < riders; i++ {
		id, err := s.post("/riders", s.rider())
		if err != nil {
			log.WithError(err).Error("Failed to create rider")
			continue
		}
		riderIDs = append(riderIDs, id)
	}
	res.Riders = len(riderIDs)

	vehicleIDs := make([]string, 0, vehicles)
	for i := 0; i < vehicles; i++ {
		v := s.vehicle()
		id, err := s.post("/vehicles", v)
		if err != nil {
			log.WithError(err).Error("Failed to create vehicle")
			continue
		}
		log.WithFields(log.Fields{"vehicle_id": id, "plate": v.LicensePlate}).Debug("Created vehicle")
		vehicleIDs = append(vehicleIDs, id)
	}
	res.Vehicles = len(vehicleIDs)

	for i := 0; i < len(riderIDs) && i < len(vehicleIDs); i++ {
		assignment := models.Assignment{
			RiderID:   riderIDs[i],
			VehicleID: vehicleIDs[i],
			StartDate: now,
		}
		if _, err := s.post("/assignments", assignment); err != nil {
			log.WithError(err).WithField("vehicle_id", vehicleIDs[i]).Error("Failed to create assignment")
			continue
		}
		res.Assignments++

		check := models.MonthlyCheck{
			RiderID:   riderIDs[i],
			VehicleID: vehicleIDs[i],
			Month:     int(now.Month()),
			Year:      now.Year(),
		}
		if _, err := s.post("/monthly-checks", check); err != nil {
			log.WithError(err).WithField("vehicle_id", vehicleIDs[i]).Error("Failed to create monthly check")
			continue
		}
		res.Checks++
	}
	return res
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

// seedToken returns SEED_AUTH_TOKEN, or mints an admin token when only
// JWT_SECRET is set.
func seedToken() (string, error) {
	if token := os.Getenv("SEED_AUTH_TOKEN"); token != "" {
		return token, nil
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", nil
	}
	return auth.NewService(secret, time.Hour).GenerateToken(models.Claims{
		UserID:   "seeder",
		Username: "seeder",
		Role:     models.RoleAdmin,
	})
}

func main() {
	token, err := seedToken()
	if err != nil {
		log.WithError(err).Fatal("Failed to mint seeder token")
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}
	riders := envInt("SEED_RIDERS", 10)
	vehicles := envInt("SEED_VEHICLES", 10)

	log.WithFields(log.Fields{
		"riders":   riders,
		"vehicles": vehicles,
		"api_url":  apiURL,
	}).Info("Seeding fleet data")

	res := newSeeder(apiURL, token, time.Now().UnixNano()).run(riders, vehicles, time.Now().UTC())

	log.WithFields(log.Fields{
		"riders":      res.Riders,
		"vehicles":    res.Vehicles,
		"assignments": res.Assignments,
		"checks":      res.Checks,
	}).Info("Seeding finished")
}
