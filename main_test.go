package main

import "testing"

func TestIsDomain(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"example.com", true},
		{"sub.example.com", true},
		{"sub.sub.example.com", true},
		{"EXAMPLE.COM", true},
		{"-example.com", false},
		{"example-.com", false},
		{"example..com", false},
		{"example", false},
		{"123.com", true},
		{"example.c", false},    // TLD too short
		{"exa_mple.com", false}, // Invalid character
		{"", false},
	}

	for _, test := range tests {
		result := isDomain(test.input)
		if result != test.expected {
			t.Errorf("isDomain(%q) = %v; want %v", test.input, result, test.expected)
		}
	}
}
