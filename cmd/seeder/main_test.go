package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-crm/internal/auth"
	"github.com/ukydev/fleet-crm/internal/models"
)

// fakeAPI records every POST and answers with a created envelope.
type fakeAPI struct {
	mu       sync.Mutex
	posts    map[string][]map[string]any
	auth     []string
	failPath string
	next     int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	path := strings.TrimPrefix(r.URL.Path, "/api")
	f.posts[path] = append(f.posts[path], body)
	f.auth = append(f.auth, r.Header.Get("Authorization"))

	w.Header().Set("Content-Type", "application/json")
	if path == f.failPath {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"message":"vehicle already assigned"}`))
		return
	}
	f.next++
	w.WriteHeader(http.StatusCreated)
	_, _ = fmt.Fprintf(w, `{"success":true,"data":{"id":"%024d"}}`, f.next)
}

func newFakeAPI(t *testing.T) (*fakeAPI, string) {
	api := &fakeAPI{posts: map[string][]map[string]any{}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return api, srv.URL + "/api"
}

func TestRun_PairsRidersAndVehicles(t *testing.T) {
	api, url := newFakeAPI(t)
	now := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	res := newSeeder(url, "tok", 1).run(3, 2, now)

	assert.Equal(t, result{Riders: 3, Vehicles: 2, Assignments: 2, Checks: 2}, res)
	assert.Len(t, api.posts["/riders"], 3)
	assert.Len(t, api.posts["/vehicles"], 2)
	require.Len(t, api.posts["/assignments"], 2)
	require.Len(t, api.posts["/monthly-checks"], 2)

	first := api.posts["/assignments"][0]
	assert.Equal(t, fmt.Sprintf("%024d", 1), first["rider_id"])
	assert.Equal(t, fmt.Sprintf("%024d", 4), first["vehicle_id"])

	check := api.posts["/monthly-checks"][1]
	assert.Equal(t, float64(3), check["month"])
	assert.Equal(t, float64(2024), check["year"])

	for _, h := range api.auth {
		assert.Equal(t, "Bearer tok", h)
	}
}

func TestRun_SkipsCheckWhenAssignmentFails(t *testing.T) {
	api, url := newFakeAPI(t)
	api.failPath = "/assignments"

	res := newSeeder(url, "", 1).run(2, 2, time.Now())

	assert.Equal(t, 0, res.Assignments)
	assert.Equal(t, 0, res.Checks)
	assert.Empty(t, api.posts["/monthly-checks"])
	assert.Empty(t, api.auth[0])
}

func TestPost_RejectsMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
	}))
	defer srv.Close()

	_, err := newSeeder(srv.URL, "", 1).post("/riders", map[string]string{})
	assert.Error(t, err)
}

func TestGeneratedRecordsAreValid(t *testing.T) {
	s := newSeeder("", "", 7)
	plate := regexp.MustCompile(`^\d{3}-\d{2}-\d{3}$`)

	for i := 0; i < 20; i++ {
		r := s.rider()
		r.ApplyDefaults()
		assert.NoError(t, models.Validate(&r))
		assert.Len(t, r.IDNumber, 9)

		v := s.vehicle()
		v.ApplyDefaults()
		assert.NoError(t, models.Validate(&v))
		assert.Regexp(t, plate, v.LicensePlate)
		assert.Contains(t, bikes[v.Manufacturer], v.Model)
	}
}

func TestSeedToken(t *testing.T) {
	t.Run("explicit token wins", func(t *testing.T) {
		t.Setenv("SEED_AUTH_TOKEN", "given")
		t.Setenv("JWT_SECRET", "secret")
		token, err := seedToken()
		require.NoError(t, err)
		assert.Equal(t, "given", token)
	})

	t.Run("minted from secret", func(t *testing.T) {
		t.Setenv("SEED_AUTH_TOKEN", "")
		t.Setenv("JWT_SECRET", "secret")
		token, err := seedToken()
		require.NoError(t, err)

		claims, err := auth.NewService("secret", time.Hour).ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, claims.Role)
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Setenv("SEED_AUTH_TOKEN", "")
		t.Setenv("JWT_SECRET", "")
		token, err := seedToken()
		require.NoError(t, err)
		assert.Empty(t, token)
	})
}

func TestEnvInt(t *testing.T) {
	t.Setenv("SEED_RIDERS", "4")
	assert.Equal(t, 4, envInt("SEED_RIDERS", 10))
	t.Setenv("SEED_RIDERS", "-1")
	assert.Equal(t, 10, envInt("SEED_RIDERS", 10))
	t.Setenv("SEED_RIDERS", "many")
	assert.Equal(t, 10, envInt("SEED_RIDERS", 10))
}
