package game

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// createTestGdataManager 在临时目录中打开 gdata 存储
func createTestGdataManager(t *testing.T, appName string) *gdata.Manager {
	t.Helper()

	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_DATA_HOME", tempDir)

	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Skipf("gdata not available in this environment: %v", err)
	}
	return m
}

func TestHighScoreManagerInitializesRecord(t *testing.T) {
	gm := createTestGdataManager(t, "planetdrop_test_init")

	hm, err := NewHighScoreManager(gm, nil)
	if err != nil {
		t.Fatalf("NewHighScoreManager() error: %v", err)
	}

	if !gm.ObjectPropExists(recordObject, recordProperty) {
		t.Fatal("record should be written on first use")
	}

	score, err := hm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if score != 0 {
		t.Errorf("initial high score = %d, want 0", score)
	}
}

func TestHighScoreManagerSaveLoad(t *testing.T) {
	gm := createTestGdataManager(t, "planetdrop_test_save")

	hm1, err := NewHighScoreManager(gm, nil)
	if err != nil {
		t.Fatalf("NewHighScoreManager() error: %v", err)
	}
	if err := hm1.Save(120); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// 重新创建管理器，已有记录不会被覆盖
	hm2, err := NewHighScoreManager(gm, nil)
	if err != nil {
		t.Fatalf("NewHighScoreManager() error on reload: %v", err)
	}
	score, err := hm2.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if score != 120 {
		t.Errorf("loaded high score = %d, want 120", score)
	}
}

func TestHighScoreManagerCorruptRecord(t *testing.T) {
	gm := createTestGdataManager(t, "planetdrop_test_corrupt")

	if err := gm.SaveObjectProp(recordObject, recordProperty, []byte("maxScore: [not, an, int")); err != nil {
		t.Fatalf("SaveObjectProp() error: %v", err)
	}

	hm, err := NewHighScoreManager(gm, nil)
	if err != nil {
		t.Fatalf("NewHighScoreManager() error: %v", err)
	}
	if _, err := hm.Load(); err == nil {
		t.Error("Load() should fail on a corrupt record")
	}
}

func TestHighScoreManagerNilGdata(t *testing.T) {
	hm, err := NewHighScoreManager(nil, nil)
	if err != nil {
		t.Fatalf("NewHighScoreManager(nil) error: %v", err)
	}

	score, err := hm.Load()
	if err != nil || score != 0 {
		t.Fatalf("Load() = (%d, %v), want (0, nil)", score, err)
	}

	tests := []struct {
		save int
		want int
	}{
		{30, 30},
		{80, 80},
		{-5, 0},
	}
	for _, tt := range tests {
		if err := hm.Save(tt.save); err != nil {
			t.Fatalf("Save(%d) error: %v", tt.save, err)
		}
		got, _ := hm.Load()
		if got != tt.want {
			t.Errorf("after Save(%d): Load() = %d, want %d", tt.save, got, tt.want)
		}
	}
}

func TestHighScoreManagerDrivesStateMachine(t *testing.T) {
	hm, _ := NewHighScoreManager(nil, nil)
	_ = hm.Save(50)

	r := newTestRig(t, 5)
	r.machine = NewGameStateMachine(StateMachineDeps{
		Session:       r.session,
		Scheduler:     r.scheduler,
		Pool:          r.pool,
		Timeline:      r.tl,
		UI:            r.ui,
		Scores:        hm,
		StartDelay:    DefaultStartDelay,
		FinalizeDelay: DefaultFinalizeDelay,
		ResetDelay:    DefaultResetDelay,
	})

	r.machine.Start()
	r.session.AddScore(80)
	r.machine.GameOver()
	r.advance(1.1)

	got, _ := hm.Load()
	if got != 80 {
		t.Errorf("stored high score = %d, want 80", got)
	}
	if r.ui.maxScore != 80 {
		t.Errorf("ui max score = %d, want 80", r.ui.maxScore)
	}
}
