// Wayfarer - Group Trip Planning and Destination Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared. It reports field
// names using their json tags and registers three domain tags:
//
//	place_category  nature, adventure, culture, food, leisure
//	budget_range    low, medium, high
//	travel_style    solo, group, family, adventure, leisure
//
// Handlers validate decoded request bodies and convert failures to the API
// envelope:
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
