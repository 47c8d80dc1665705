package tracing

import "testing"

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{"always sampler", SamplerAlways, 0.0, false},
		{"never sampler", SamplerNever, 0.0, false},
		{"ratio sampler - 0%", SamplerRatio, 0.0, false},
		{"ratio sampler - 50%", SamplerRatio, 0.5, false},
		{"ratio sampler - 100%", SamplerRatio, 1.0, false},
		{"ratio sampler - invalid negative", SamplerRatio, -0.1, true},
		{"ratio sampler - invalid > 1", SamplerRatio, 1.5, true},
		{"unknown strategy", "unknown", 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createSampler() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && sampler == nil {
				t.Error("createSampler() returned nil sampler")
			}
			if err := ValidateSampler(tt.strategy, tt.ratio); (err != nil) != tt.wantErr {
				t.Errorf("ValidateSampler() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
