package config

import "testing"

func TestSlotLabels(t *testing.T) {
	cfg := &Config{FirstSlotHour: 9, SlotCount: 10}

	labels := cfg.SlotLabels()
	if len(labels) != 10 {
		t.Fatalf("expected 10 labels, got %d", len(labels))
	}
	if labels[0] != "9:00" {
		t.Errorf("first label = %q, want 9:00", labels[0])
	}
	if labels[9] != "18:00" {
		t.Errorf("last label = %q, want 18:00", labels[9])
	}
}

func TestValidateRejectsBadSlotWindow(t *testing.T) {
	cfg := &Config{
		MongoURI:          DefaultMongoURI,
		MongoDatabaseName: DefaultMongoDatabaseName,
		MongoConnTimeout:  DefaultMongoConnTimeout,
		Port:              DefaultPort,
		RateLimitRequests: DefaultRateLimitRequests,
		RateLimitWindow:   DefaultRateLimitWindow,
		RequestTimeout:    DefaultRequestTimeout,
		MaxRequestSize:    DefaultMaxRequestSize,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
		ShutdownTimeout:   DefaultShutdownTimeout,

		BookingHorizonDays: 14,
		FirstSlotHour:      20,
		SlotCount:          10, // 20:00 + 10 slots spills past midnight
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for slot window past midnight")
	}

	cfg.FirstSlotHour = 9
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
