package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/egorcha174/fusion-new-sub001/migrations"

	"github.com/egorcha174/fusion-new-sub001/internal/dashboard"
	"github.com/egorcha174/fusion-new-sub001/internal/device"
	"github.com/egorcha174/fusion-new-sub001/internal/hass"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/config"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/database"
	"github.com/egorcha174/fusion-new-sub001/internal/infrastructure/logging"
)

// testServer creates a Server backed by a real settings store over a temp
// SQLite file and a platform client that is never connected. Tests that
// need live entities install them straight into the state mirror.
func testServer(t *testing.T) (*Server, *hass.StateStore) {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	dashCfg := config.DashboardConfig{
		DefaultCols:         8,
		DefaultRows:         5,
		LowBatteryThreshold: 20,
	}
	manager := dashboard.NewManager(dashboard.NewSQLiteStore(db.DB), dashCfg, log)
	if err := manager.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	store := hass.NewStateStore()
	platform := hass.NewClient(config.PlatformConfig{
		BaseURL:          "http://127.0.0.1:1",
		AccessToken:      "test-token",
		CallTimeout:      1,
		HistoryTimeout:   1,
		HandshakeTimeout: 1,
	}, store, log)

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Dashboard: dashCfg,
		Logger:    log,
		Platform:  platform,
		Layout:    manager,
		Version:   "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// Initialise hub for tests
	srv.hub = NewHub(srv.wsCfg, log)
	go srv.hub.Run(context.Background())

	return srv, store
}

// doJSON runs one request against the router and returns the recorder.
func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal response: %v; body: %s", err, w.Body.String())
	}
}

func installTestEntities(store *hass.StateStore) {
	store.InstallEntities([]hass.Entity{
		{
			EntityID: "light.kitchen_ceiling",
			State:    "on",
			Attributes: map[string]any{
				"friendly_name": "Kitchen Ceiling",
				"brightness":    float64(200),
			},
		},
		{
			EntityID: "sensor.hallway_temp",
			State:    "21.5",
			Attributes: map[string]any{
				"friendly_name":       "Hallway Temperature",
				"device_class":        "temperature",
				"unit_of_measurement": "°C",
			},
		},
		{
			EntityID: "sensor.door_battery",
			State:    "15",
			Attributes: map[string]any{
				"friendly_name": "Door Sensor Battery",
				"device_class":  "battery",
			},
		},
	})
	kitchen := "kitchen"
	store.InstallAreas([]hass.AreaRecord{{AreaID: kitchen, Name: "Kitchen"}})
	store.InstallRegistry([]hass.RegistryEntry{
		{EntityID: "light.kitchen_ceiling", AreaID: &kitchen},
	})
}

// ─── Health Endpoint Tests ─────────────────────────────────────────

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	decodeBody(t, w, &resp)

	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["version"] != "test" {
		t.Errorf("version = %v, want test", resp["version"])
	}
	if resp["platform"] == nil {
		t.Error("expected platform connection status in health payload")
	}
}

func TestHealth_ContentType(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/health", "")
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}
}

// ─── Middleware Tests ──────────────────────────────────────────────

func TestRequestID_Generated(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/health", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}
}

func TestRequestID_PreservesClient(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "client-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-123" {
		t.Errorf("X-Request-ID = %q, want %q", got, "client-123")
	}
}

func TestNotFound(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/nonexistent", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// ─── Connection Tests ──────────────────────────────────────────────

func TestConnectionStatus_Idle(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/connection", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var status hass.Status
	decodeBody(t, w, &status)
	if status.State != hass.StateIdle {
		t.Errorf("connection state = %q, want %q", status.State, hass.StateIdle)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/connection/connect", "")
	if w.Code != http.StatusBadGateway {
		t.Errorf("connect status = %d, want %d; body: %s", w.Code, http.StatusBadGateway, w.Body.String())
	}
}

// ─── Device Model Tests ────────────────────────────────────────────

func TestListRooms(t *testing.T) {
	srv, store := testServer(t)
	installTestEntities(store)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/rooms", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var rooms []device.Room
	decodeBody(t, w, &rooms)

	if len(rooms) != 2 {
		t.Fatalf("rooms = %d, want 2 (kitchen + no area)", len(rooms))
	}
	if rooms[0].ID != "kitchen" {
		t.Errorf("first room = %q, want kitchen", rooms[0].ID)
	}
	if rooms[len(rooms)-1].ID != device.NoAreaRoomID {
		t.Errorf("last room = %q, want the no-area bucket", rooms[len(rooms)-1].ID)
	}
}

func TestListDevices(t *testing.T) {
	srv, store := testServer(t)
	installTestEntities(store)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/devices", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var devices []device.Device
	decodeBody(t, w, &devices)
	if len(devices) != 3 {
		t.Errorf("devices = %d, want 3", len(devices))
	}
}

func TestGetDevice(t *testing.T) {
	srv, store := testServer(t)
	installTestEntities(store)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/devices/light.kitchen_ceiling", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var d device.Device
	decodeBody(t, w, &d)
	if d.Name != "Kitchen Ceiling" {
		t.Errorf("name = %q, want %q", d.Name, "Kitchen Ceiling")
	}
	if d.Type != device.TypeDimmableLight {
		t.Errorf("type = %q, want %q", d.Type, device.TypeDimmableLight)
	}
}

func TestGetDevice_NotFound(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/devices/light.nope", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestLowBattery(t *testing.T) {
	srv, store := testServer(t)
	installTestEntities(store)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/devices/battery", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var low []device.Device
	decodeBody(t, w, &low)
	if len(low) != 1 || low[0].ID != "sensor.door_battery" {
		t.Fatalf("low battery = %+v, want just sensor.door_battery", low)
	}
}

func TestLowBattery_PerDeviceThreshold(t *testing.T) {
	srv, store := testServer(t)
	router := srv.buildRouter()

	store.InstallEntities([]hass.Entity{{
		EntityID:   "sensor.remote_battery",
		State:      "45",
		Attributes: map[string]any{"device_class": "battery"},
	}})

	// 45% is healthy against the global 20% threshold.
	w := doJSON(t, router, http.MethodGet, "/api/v1/devices/battery", "")
	var low []device.Device
	decodeBody(t, w, &low)
	if len(low) != 0 {
		t.Fatalf("low battery before override = %d, want 0", len(low))
	}

	// Raise this device's own threshold above its level.
	w = doJSON(t, router, http.MethodPut, "/api/v1/customizations/sensor.remote_battery",
		`{"low_battery_threshold": 50}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set customization status = %d; body: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/devices/battery", "")
	decodeBody(t, w, &low)
	if len(low) != 1 || low[0].ID != "sensor.remote_battery" {
		t.Fatalf("low battery after override = %+v, want sensor.remote_battery", low)
	}
}

func TestCallService_NotConnected(t *testing.T) {
	srv, store := testServer(t)
	installTestEntities(store)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/devices/light.kitchen_ceiling/service",
		`{"domain": "light", "service": "turn_on", "data": {"brightness": 128}}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestCallService_Validation(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/devices/light.a/service", `{"domain": "light"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// ─── Customization Tests ───────────────────────────────────────────

func TestCustomizations_CRUD(t *testing.T) {
	srv, store := testServer(t)
	installTestEntities(store)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPut, "/api/v1/customizations/light.kitchen_ceiling",
		`{"name": "Main Light", "is_hidden": true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set status = %d; body: %s", w.Code, w.Body.String())
	}

	// The override shapes the mapped device.
	w = doJSON(t, router, http.MethodGet, "/api/v1/devices/light.kitchen_ceiling", "")
	var d device.Device
	decodeBody(t, w, &d)
	if d.Name != "Main Light" {
		t.Errorf("name = %q, want %q", d.Name, "Main Light")
	}
	if !d.Hidden {
		t.Error("expected device to be hidden")
	}

	// Hidden devices drop out of the default room view.
	w = doJSON(t, router, http.MethodGet, "/api/v1/rooms", "")
	var rooms []device.Room
	decodeBody(t, w, &rooms)
	for _, room := range rooms {
		for _, dev := range room.Devices {
			if dev.ID == "light.kitchen_ceiling" {
				t.Error("hidden device present in default room view")
			}
		}
	}

	w = doJSON(t, router, http.MethodDelete, "/api/v1/customizations/light.kitchen_ceiling", "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/customizations", "")
	var all map[string]device.Customization
	decodeBody(t, w, &all)
	if len(all) != 0 {
		t.Errorf("customizations after delete = %d, want 0", len(all))
	}
}

func TestSetCustomization_UnknownType(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPut, "/api/v1/customizations/light.a", `{"type": "flux_capacitor"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// ─── Tab and Layout Tests ──────────────────────────────────────────

func createTab(t *testing.T, router http.Handler, name string) dashboard.Tab {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/tabs", `{"name": "`+name+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create tab status = %d; body: %s", w.Code, w.Body.String())
	}
	var tab dashboard.Tab
	decodeBody(t, w, &tab)
	return tab
}

func TestCreateTab_Defaults(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	tab := createTab(t, router, "Main")
	if tab.ID == "" {
		t.Error("expected tab ID to be assigned")
	}
	if tab.GridSettings.Cols != 8 || tab.GridSettings.Rows != 5 {
		t.Errorf("grid = %dx%d, want 8x5", tab.GridSettings.Cols, tab.GridSettings.Rows)
	}

	// First tab becomes active.
	w := doJSON(t, router, http.MethodGet, "/api/v1/tabs/active", "")
	var resp map[string]any
	decodeBody(t, w, &resp)
	if resp["active_tab"] != tab.ID {
		t.Errorf("active_tab = %v, want %s", resp["active_tab"], tab.ID)
	}
}

func TestPlaceAndMoveDevice(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()
	tab := createTab(t, router, "Main")

	w := doJSON(t, router, http.MethodPost, "/api/v1/tabs/"+tab.ID+"/layout/place",
		`{"device_id": "light.a"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("place status = %d; body: %s", w.Code, w.Body.String())
	}
	var placeResp struct {
		Placed bool `json:"placed"`
	}
	decodeBody(t, w, &placeResp)
	if !placeResp.Placed {
		t.Fatal("expected device to be placed")
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/tabs/"+tab.ID+"/layout/move",
		`{"device_id": "light.a", "col": 3, "row": 2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("move status = %d; body: %s", w.Code, w.Body.String())
	}
	var moveResp struct {
		Moved  bool `json:"moved"`
		Layout []struct {
			DeviceID string  `json:"device_id"`
			Col      float64 `json:"col"`
			Row      float64 `json:"row"`
		} `json:"layout"`
	}
	decodeBody(t, w, &moveResp)
	if !moveResp.Moved {
		t.Fatal("expected move to commit")
	}
	if len(moveResp.Layout) != 1 || moveResp.Layout[0].Col != 3 || moveResp.Layout[0].Row != 2 {
		t.Errorf("layout after move = %+v, want device at (3,2)", moveResp.Layout)
	}
}

func TestMoveDevice_CollisionRejected(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()
	tab := createTab(t, router, "Main")

	doJSON(t, router, http.MethodPost, "/api/v1/tabs/"+tab.ID+"/layout/place", `{"device_id": "light.a"}`)
	doJSON(t, router, http.MethodPost, "/api/v1/tabs/"+tab.ID+"/layout/place", `{"device_id": "light.b"}`)

	// Drag b onto a: rejected, layout unchanged, still 200.
	w := doJSON(t, router, http.MethodPost, "/api/v1/tabs/"+tab.ID+"/layout/move",
		`{"device_id": "light.b", "col": 0, "row": 0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("move status = %d; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Moved  bool `json:"moved"`
		Layout []struct {
			DeviceID string  `json:"device_id"`
			Col      float64 `json:"col"`
		} `json:"layout"`
	}
	decodeBody(t, w, &resp)
	if resp.Moved {
		t.Error("expected overlapping move to be rejected")
	}
	for _, item := range resp.Layout {
		if item.DeviceID == "light.b" && item.Col != 1 {
			t.Errorf("light.b col = %v, want unchanged 1", item.Col)
		}
	}
}

func TestPlaceDevice_FullGrid(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()
	tab := createTab(t, router, "Tiny")

	w := doJSON(t, router, http.MethodPut, "/api/v1/tabs/"+tab.ID+"/grid", `{"cols": 1, "rows": 1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("grid update status = %d; body: %s", w.Code, w.Body.String())
	}

	doJSON(t, router, http.MethodPost, "/api/v1/tabs/"+tab.ID+"/layout/place", `{"device_id": "light.a"}`)

	w = doJSON(t, router, http.MethodPost, "/api/v1/tabs/"+tab.ID+"/layout/place", `{"device_id": "light.b"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("place on full grid status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Placed bool `json:"placed"`
	}
	decodeBody(t, w, &resp)
	if resp.Placed {
		t.Error("expected placed=false on a full grid")
	}
}

func TestShrinkGrid_StrandingRejected(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()
	tab := createTab(t, router, "Main")

	doJSON(t, router, http.MethodPost, "/api/v1/tabs/"+tab.ID+"/layout/place", `{"device_id": "light.a"}`)
	doJSON(t, router, http.MethodPost, "/api/v1/tabs/"+tab.ID+"/layout/move",
		`{"device_id": "light.a", "col": 7, "row": 4}`)

	w := doJSON(t, router, http.MethodPut, "/api/v1/tabs/"+tab.ID+"/grid", `{"cols": 4, "rows": 4}`)
	if w.Code != http.StatusConflict {
		t.Errorf("shrink status = %d, want %d; body: %s", w.Code, http.StatusConflict, w.Body.String())
	}
}

func TestDeleteTab_ActiveCascade(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()
	first := createTab(t, router, "First")
	second := createTab(t, router, "Second")

	w := doJSON(t, router, http.MethodDelete, "/api/v1/tabs/"+first.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	var resp map[string]any
	decodeBody(t, w, &resp)
	if resp["active_tab"] != second.ID {
		t.Errorf("active_tab after delete = %v, want %s", resp["active_tab"], second.ID)
	}
}

func TestRenameTab_NotFound(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPatch, "/api/v1/tabs/nope", `{"name": "X"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// ─── Template Tests ────────────────────────────────────────────────

func TestTemplates_CRUD(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/templates",
		`{"name": "Wide Light", "device_type": "light", "width": 2, "height": 1}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d; body: %s", w.Code, w.Body.String())
	}
	var tpl dashboard.CardTemplate
	decodeBody(t, w, &tpl)
	if tpl.ID == "" {
		t.Fatal("expected template ID to be assigned")
	}

	w = doJSON(t, router, http.MethodPut, "/api/v1/templates/"+tpl.ID,
		`{"name": "Wide Light v2", "device_type": "light", "width": 2, "height": 1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d; body: %s", w.Code, w.Body.String())
	}
	var updated dashboard.CardTemplate
	decodeBody(t, w, &updated)
	if updated.Name != "Wide Light v2" {
		t.Errorf("name = %q, want %q", updated.Name, "Wide Light v2")
	}
	if updated.ID != tpl.ID {
		t.Errorf("ID changed on update: %q -> %q", tpl.ID, updated.ID)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/v1/templates/"+tpl.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/templates/"+tpl.ID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestUpdateTemplate_NotFound(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPut, "/api/v1/templates/nope", `{"name": "X"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// ─── Platform Passthrough Tests ────────────────────────────────────

func TestPlatformConfig_NotConnected(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/platform/config", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestSignPath_Validation(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/platform/sign-path", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHistory_Validation(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	tests := []struct {
		name string
		path string
	}{
		{"missing entity ids", "/api/v1/history"},
		{"blank entity ids", "/api/v1/history?entity_ids=,,"},
		{"bad start", "/api/v1/history?entity_ids=light.a&start=yesterday"},
		{"end before start", "/api/v1/history?entity_ids=light.a&start=2026-02-01T00:00:00Z&end=2026-01-01T00:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, tt.path, "")
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}
