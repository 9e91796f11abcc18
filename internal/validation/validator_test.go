// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type placeRequest struct {
	XID      string  `json:"xid" validate:"required,max=100"`
	Name     string  `json:"name" validate:"required,max=200"`
	Category string  `json:"category" validate:"omitempty,place_category"`
	ImageURL string  `json:"image_url" validate:"omitempty,url"`
	Lat      float64 `json:"lat" validate:"latitude"`
	Notes    string  `json:"notes" validate:"max=20"`
}

type profileRequest struct {
	Budget string `json:"budget_range" validate:"required,budget_range"`
	Style  string `json:"travel_style" validate:"required,travel_style"`
	Limit  int    `validate:"min=1,max=100"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"full place", &placeRequest{XID: "W1", Name: "Chapel Bridge", Category: "culture", ImageURL: "https://img/x.jpg", Lat: 47.05}},
		{"minimal place", &placeRequest{XID: "W1", Name: "A"}},
		{"leisure category", &placeRequest{XID: "W1", Name: "A", Category: "leisure"}},
		{"category case-insensitive", &placeRequest{XID: "W1", Name: "A", Category: "Nature"}},
		{"profile", &profileRequest{Budget: "medium", Style: "family", Limit: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{"missing xid", &placeRequest{Name: "A"}, "xid", "required"},
		{"bad category", &placeRequest{XID: "W1", Name: "A", Category: "shopping"}, "category", TagPlaceCategory},
		{"bad url", &placeRequest{XID: "W1", Name: "A", ImageURL: "not a url"}, "image_url", "url"},
		{"bad latitude", &placeRequest{XID: "W1", Name: "A", Lat: 91}, "lat", "latitude"},
		{"long notes", &placeRequest{XID: "W1", Name: "A", Notes: strings.Repeat("n", 21)}, "notes", "max"},
		{"bad budget", &profileRequest{Budget: "lavish", Style: "solo", Limit: 1}, "budget_range", TagBudget},
		{"bad style", &profileRequest{Budget: "low", Style: "backpacker", Limit: 1}, "travel_style", TagTravelStyle},
		{"no json tag", &profileRequest{Budget: "low", Style: "solo", Limit: 0}, "Limit", "min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() expected error, got nil")
			}
			if len(err.Errors()) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(err.Errors()), err)
			}
			fe := err.Errors()[0]
			if fe.Field() != tt.wantField || fe.Tag() != tt.wantTag {
				t.Errorf("got %s/%s, want %s/%s", fe.Field(), fe.Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	err := ValidateStruct(&placeRequest{XID: "W1"})
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "name is required" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "name is required")
	}
	if apiErr.Details["field"] != "name" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	err := ValidateStruct(&placeRequest{Category: "shopping"})
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Fatalf("Details[fields] = %v, want 3 entries", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, "xid: xid is required") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if !strings.Contains(apiErr.Message, "category: category must be one of") {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		input interface{}
		want  string
	}{
		{&placeRequest{XID: "W1", Name: "A", Notes: strings.Repeat("n", 21)}, "notes must be at most 20 characters"},
		{&profileRequest{Budget: "low", Style: "solo", Limit: 101}, "Limit must be at most 100"},
		{&placeRequest{XID: "W1", Name: "A", Lat: -100}, "lat must be a valid latitude (-90 to 90)"},
	}
	for _, tt := range tests {
		err := ValidateStruct(tt.input)
		if err == nil {
			t.Fatalf("expected error for %+v", tt.input)
		}
		if err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
		}
	}
}
