package session

import (
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/campusguard/dresswatch/pkg/detect"
	"github.com/campusguard/dresswatch/pkg/violation"
	"gocv.io/x/gocv"
)

// fakeDevice produces synthetic frames without a physical camera.
type fakeDevice struct {
	mu       sync.Mutex
	reads    int
	closes   int
	failRead bool
}

func (f *fakeDevice) Read(dst *gocv.Mat) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRead {
		return false
	}
	f.reads++
	m := gocv.NewMatWithSize(frameHeight, frameWidth, gocv.MatTypeCV8UC3)
	defer m.Close()
	m.CopyTo(dst)
	return true
}

func (f *fakeDevice) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

// testClock is an adjustable clock for cooldown tests.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func maleOutfit() []detect.Detection {
	return []detect.Detection{
		{ClassName: "polo_shirt", DisplayName: "Polo Shirt", Confidence: 0.9, Box: image.Rect(10, 10, 100, 200)},
		{ClassName: "pants", DisplayName: "Black Pants", Confidence: 0.8, Box: image.Rect(10, 200, 100, 400)},
		{ClassName: "shoes", DisplayName: "Shoes", Confidence: 0.7, Box: image.Rect(10, 400, 100, 450)},
	}
}

func newTestSession(det detect.Detector, sink violation.Sink, clock *testClock) (*Session, *fakeDevice) {
	dev := &fakeDevice{}
	pipe := &Pipeline{
		Detector:  det,
		Threshold: 0.5,
		Sink:      sink,
		Location:  LiveLocation,
		Now:       clock.Now,
	}
	s := New(pipe, func() (Device, error) { return dev, nil })
	return s, dev
}

func TestStartStop_Idempotent(t *testing.T) {
	opens := 0
	dev := &fakeDevice{}
	s := New(&Pipeline{Detector: &detect.Mock{}, Threshold: 0.5},
		func() (Device, error) { opens++; return dev, nil })

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if opens != 1 {
		t.Errorf("device opened %d times, want 1", opens)
	}
	if !s.Active() {
		t.Error("Active() = false, want true")
	}

	s.Stop()
	s.Stop()
	if dev.closes != 1 {
		t.Errorf("device closed %d times, want 1", dev.closes)
	}
	if s.Active() {
		t.Error("Active() = true after Stop, want false")
	}
}

func TestStart_DeviceFailure(t *testing.T) {
	s := New(&Pipeline{Detector: &detect.Mock{}},
		func() (Device, error) { return nil, errors.New("no camera") })

	if err := s.Start(); err == nil {
		t.Fatal("Start() error = nil, want device failure")
	}
	if s.Active() {
		t.Error("Active() = true after failed Start, want false")
	}
	if _, ok := s.RunCycle(nil); ok {
		t.Error("RunCycle() ok = true on failed session, want false")
	}
}

func TestRunCycle_Inactive(t *testing.T) {
	clock := &testClock{now: time.Unix(1000, 0)}
	s, _ := newTestSession(&detect.Mock{}, &violation.Memory{}, clock)

	if res, ok := s.RunCycle(nil); ok || res != nil {
		t.Errorf("RunCycle() = (%v, %v) on inactive session, want (nil, false)", res, ok)
	}
}

func TestRunCycle_PublishesResult(t *testing.T) {
	clock := &testClock{now: time.Unix(1000, 0)}
	sink := &violation.Memory{}
	s, _ := newTestSession(&detect.Mock{Detections: maleOutfit()}, sink, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	res, ok := s.RunCycle(nil)
	if !ok {
		t.Fatal("RunCycle() ok = false, want true")
	}
	if !res.Compliance.IsCompliant {
		t.Errorf("IsCompliant = false, want true (missing %v)", res.Compliance.MissingItems)
	}
	if len(res.Detections) != 3 {
		t.Errorf("Detections len = %d, want 3", len(res.Detections))
	}
	if len(res.JPEG) == 0 {
		t.Error("JPEG is empty")
	}
	if s.Last() != res {
		t.Error("Last() does not return the published result")
	}
	if got := s.Violations(); got != 0 {
		t.Errorf("Violations() = %d, want 0", got)
	}
	if len(sink.Records()) != 0 {
		t.Errorf("sink records = %d, want 0", len(sink.Records()))
	}
}

func TestRunCycle_CooldownSuppresses(t *testing.T) {
	clock := &testClock{now: time.Unix(1000, 0)}
	sink := &violation.Memory{}
	// No detections: defaults to Male with all three items missing.
	s, _ := newTestSession(&detect.Mock{}, sink, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	if _, ok := s.RunCycle(nil); !ok {
		t.Fatal("first RunCycle() ok = false, want true")
	}
	clock.Advance(1 * time.Second)
	if _, ok := s.RunCycle(nil); !ok {
		t.Fatal("second RunCycle() ok = false, want true")
	}

	// One forwarded batch of three items, one counter increment.
	if got := len(sink.Records()); got != 3 {
		t.Errorf("sink records = %d, want 3", got)
	}
	if got := s.Violations(); got != 1 {
		t.Errorf("Violations() = %d, want 1", got)
	}
}

func TestRunCycle_CooldownExpires(t *testing.T) {
	clock := &testClock{now: time.Unix(1000, 0)}
	sink := &violation.Memory{}
	s, _ := newTestSession(&detect.Mock{}, sink, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	s.RunCycle(nil)
	clock.Advance(6 * time.Second)
	s.RunCycle(nil)

	if got := len(sink.Records()); got != 6 {
		t.Errorf("sink records = %d, want 6", got)
	}
	if got := s.Violations(); got != 2 {
		t.Errorf("Violations() = %d, want 2", got)
	}
}

func TestRunCycle_ViolationFields(t *testing.T) {
	clock := &testClock{now: time.Unix(1000, 0)}
	sink := &violation.Memory{}
	s, _ := newTestSession(&detect.Mock{}, sink, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	studentID := int64(7)
	s.RunCycle(&studentID)

	records := sink.Records()
	if len(records) != 3 {
		t.Fatalf("sink records = %d, want 3", len(records))
	}
	for i, want := range []string{"Polo Shirt", "Black Pants", "Shoes"} {
		v := records[i]
		if v.MissingItem != want {
			t.Errorf("records[%d].MissingItem = %q, want %q", i, v.MissingItem, want)
		}
		if v.Location != LiveLocation {
			t.Errorf("records[%d].Location = %q, want %q", i, v.Location, LiveLocation)
		}
		if v.Status != violation.StatusPending {
			t.Errorf("records[%d].Status = %q, want %q", i, v.Status, violation.StatusPending)
		}
		if v.StudentID == nil || *v.StudentID != studentID {
			t.Errorf("records[%d].StudentID = %v, want %d", i, v.StudentID, studentID)
		}
		if !v.DetectedAt.Equal(clock.Now()) {
			t.Errorf("records[%d].DetectedAt = %v, want %v", i, v.DetectedAt, clock.Now())
		}
	}
}

func TestStop_PreservesLastAndCount(t *testing.T) {
	clock := &testClock{now: time.Unix(1000, 0)}
	s, _ := newTestSession(&detect.Mock{}, &violation.Memory{}, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	res, _ := s.RunCycle(nil)
	s.Stop()

	if s.Last() != res {
		t.Error("Last() cleared by Stop, want preserved")
	}
	if got := s.Violations(); got != 1 {
		t.Errorf("Violations() = %d after Stop, want 1", got)
	}
}

func TestRestart_ResetsState(t *testing.T) {
	clock := &testClock{now: time.Unix(1000, 0)}
	s, _ := newTestSession(&detect.Mock{}, &violation.Memory{}, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.RunCycle(nil)
	s.Stop()

	if err := s.Start(); err != nil {
		t.Fatalf("restart Start() error = %v", err)
	}
	defer s.Stop()

	if s.Last() != nil {
		t.Error("Last() survived restart, want nil")
	}
	if got := s.Violations(); got != 0 {
		t.Errorf("Violations() = %d after restart, want 0", got)
	}
}

func TestRunCycle_DetectionFailureDegrades(t *testing.T) {
	clock := &testClock{now: time.Unix(1000, 0)}
	sink := &violation.Memory{}
	det := &detect.Mock{Err: errors.New("model exploded")}
	s, _ := newTestSession(det, sink, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	res, ok := s.RunCycle(nil)
	if !ok {
		t.Fatal("RunCycle() ok = false, want true (failure degrades to zero detections)")
	}
	if len(res.Detections) != 0 {
		t.Errorf("Detections len = %d, want 0", len(res.Detections))
	}
	if res.Compliance.Gender != "Male" {
		t.Errorf("Gender = %v, want Male default", res.Compliance.Gender)
	}
	if s.Active() != true {
		t.Error("session went inactive after detection failure")
	}
}

func TestRunCycle_SinkFailureNonFatal(t *testing.T) {
	clock := &testClock{now: time.Unix(1000, 0)}
	sink := &violation.Memory{Err: errors.New("db down")}
	s, _ := newTestSession(&detect.Mock{}, sink, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	res, ok := s.RunCycle(nil)
	if !ok || res == nil {
		t.Fatal("RunCycle() failed, want degraded success despite sink error")
	}
	if got := s.Violations(); got != 1 {
		t.Errorf("Violations() = %d, want 1 (counter moves even when the sink fails)", got)
	}
}

func TestRunCycle_CaptureFailure(t *testing.T) {
	clock := &testClock{now: time.Unix(1000, 0)}
	s, dev := newTestSession(&detect.Mock{}, &violation.Memory{}, clock)
	dev.failRead = true

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	if res, ok := s.RunCycle(nil); ok || res != nil {
		t.Errorf("RunCycle() = (%v, %v) on capture failure, want (nil, false)", res, ok)
	}
	if s.Last() != nil {
		t.Error("Last() set by failed capture, want nil")
	}
}

func TestSnapshot(t *testing.T) {
	clock := &testClock{now: time.Unix(1000, 0)}
	s, _ := newTestSession(&detect.Mock{}, &violation.Memory{}, clock)

	st := s.Snapshot()
	if st.Active || st.LastDetection != nil || st.ViolationCount != 0 {
		t.Errorf("Snapshot() = %+v on fresh session, want inactive/empty", st)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()
	res, _ := s.RunCycle(nil)

	st = s.Snapshot()
	if !st.Active {
		t.Error("Snapshot().Active = false, want true")
	}
	if st.LastDetection != res {
		t.Error("Snapshot().LastDetection does not match published result")
	}
	if st.ViolationCount != 1 {
		t.Errorf("Snapshot().ViolationCount = %d, want 1", st.ViolationCount)
	}
}

func TestRunCycle_ConcurrentConsumers(t *testing.T) {
	clock := &testClock{now: time.Unix(1000, 0)}
	s, dev := newTestSession(&detect.Mock{Detections: maleOutfit()}, &violation.Memory{}, clock)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				s.RunCycle(nil)
			}
		}()
	}
	wg.Wait()
	s.Stop()

	if dev.reads != 20 {
		t.Errorf("device reads = %d, want 20 (cycles serialized, one read each)", dev.reads)
	}
	if dev.closes != 1 {
		t.Errorf("device closes = %d, want 1", dev.closes)
	}
}
