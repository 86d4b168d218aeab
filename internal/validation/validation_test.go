package validation

import "testing"

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "valid", username: "sam_87", wantErr: false},
		{name: "valid with dot", username: "sam.mcg", wantErr: false},
		{name: "empty", username: "", wantErr: true},
		{name: "too short", username: "ab", wantErr: true},
		{name: "spaces", username: "sam smith", wantErr: true},
		{name: "whitespace only", username: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid", email: "sam@example.com", wantErr: false},
		{name: "empty is allowed", email: "", wantErr: false},
		{name: "missing domain", email: "sam@", wantErr: true},
		{name: "missing at", email: "sam.example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Error("expected error for short password")
	}
	if err := ValidatePassword(""); err == nil {
		t.Error("expected error for empty password")
	}
	if err := ValidatePassword("longenough1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid", value: "2024-01-31", wantErr: false},
		{name: "wrong order", value: "31-01-2024", wantErr: true},
		{name: "empty", value: "", wantErr: true},
		{name: "not a date", value: "someday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := ValidateDate("date", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDate(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err == nil && date.Format("2006-01-02") != tt.value {
				t.Errorf("ValidateDate(%q) parsed to %s", tt.value, date)
			}
		})
	}
}

func TestValidateClockTime(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid morning", value: "09:30", wantErr: false},
		{name: "valid midnight", value: "00:00", wantErr: false},
		{name: "valid late", value: "23:59", wantErr: false},
		{name: "hour out of range", value: "24:00", wantErr: true},
		{name: "minutes out of range", value: "12:60", wantErr: true},
		{name: "12h with meridiem", value: "9:30 PM", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClockTime("time", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateClockTime(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}
