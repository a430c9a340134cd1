package catalog

import "testing"

func TestRequiredBlocks(t *testing.T) {
	cases := []struct {
		minutes int
		want    int
	}{
		{15, 1},
		{30, 2},
		{45, 3},
		{60, 4},
		{20, 2},
		{1, 1},
		{0, 0},
	}
	for _, tc := range cases {
		s := Service{DurationMinutes: tc.minutes}
		if got := s.RequiredBlocks(); got != tc.want {
			t.Errorf("RequiredBlocks(%d min) = %d, want %d", tc.minutes, got, tc.want)
		}
	}
}

func TestCreateServiceRequestValidate(t *testing.T) {
	req := CreateServiceRequest{Name: "Consulta general", DurationMinutes: 30}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	req = CreateServiceRequest{DurationMinutes: 30}
	if err := req.Validate(); err != ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	req = CreateServiceRequest{Name: "Consulta general"}
	if err := req.Validate(); err != ErrInvalidDuration {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}
