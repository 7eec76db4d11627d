package service

import "testing"

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestValidateAnswerShape(t *testing.T) {
	cases := []struct {
		name    string
		format  int
		vf      *bool
		qcm     *int
		wantErr bool
	}{
		{"vf true on format 2", 2, boolPtr(true), nil, false},
		{"vf false on format 2", 2, boolPtr(false), nil, false},
		{"no answer on format 2", 2, nil, nil, false},
		{"qcm on format 2", 2, nil, intPtr(1), true},
		{"qcm on format 4", 4, nil, intPtr(3), false},
		{"no answer on format 4", 4, nil, nil, false},
		{"vf on format 4", 4, boolPtr(true), nil, true},
		{"qcm below range", 4, nil, intPtr(0), true},
		{"qcm above range", 4, nil, intPtr(5), true},
		{"both answers format 2", 2, boolPtr(true), intPtr(1), true},
		{"both answers format 4", 4, boolPtr(false), intPtr(2), true},
		{"unknown format", 3, nil, nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAnswerShape(tc.format, tc.vf, tc.qcm)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateAnswerShape(%d, %v, %v) error = %v, wantErr %v",
					tc.format, tc.vf, tc.qcm, err, tc.wantErr)
			}
		})
	}
}

func TestValidateAnswerShapeIsFieldScoped(t *testing.T) {
	err := ValidateAnswerShape(2, nil, intPtr(2))
	if err == nil {
		t.Fatal("expected rejection")
	}
	if err.Field != "reponse_choisie_qcm" {
		t.Fatalf("field = %q, want reponse_choisie_qcm", err.Field)
	}
}
