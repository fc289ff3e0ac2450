package records

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestAddNameServer(t *testing.T) {
	rec := DomainRecord{Domain: "example.com"}
	rec.AddNameServer("NS1.Example.COM.")
	rec.AddNameServer("ns1.example.com")
	rec.AddNameServer("  ns2.example.com ")
	rec.AddNameServer("")
	rec.AddNameServer("   ")

	expected := []string{"ns1.example.com", "ns2.example.com"}
	if !reflect.DeepEqual(rec.NameServers, expected) {
		t.Errorf("NameServers = %v; want %v", rec.NameServers, expected)
	}
}

func TestFinalizeDefaults(t *testing.T) {
	rec := DomainRecord{Domain: "example.com", DomainStatus: []string{"active"}}
	rec.AddNameServer("ns1.example.com")
	rec.Finalize()

	if rec.Registrar != RegistrarUnknown {
		t.Errorf("Registrar = %q; want %q", rec.Registrar, RegistrarUnknown)
	}
	if rec.Owner != RegistrarUnknown {
		t.Errorf("Owner = %q; want %q", rec.Owner, RegistrarUnknown)
	}

	// The raw-data echo must hold copies, not the record's own slices.
	rawStatus := rec.RawData["status"].([]string)
	rawStatus[0] = "mutated"
	if rec.DomainStatus[0] != "active" {
		t.Error("RawData shares backing storage with DomainStatus")
	}
}

func TestAvailableRecord(t *testing.T) {
	rec := AvailableRecord("example.com", "rdap.verisign.com (RDAP)")
	if !rec.IsAvailable() {
		t.Error("AvailableRecord should report IsAvailable")
	}
	if rec.Registrar != RegistrarNotRegistered {
		t.Errorf("Registrar = %q; want %q", rec.Registrar, RegistrarNotRegistered)
	}
	if !reflect.DeepEqual(rec.DomainStatus, []string{StatusTokenAvailable}) {
		t.Errorf("DomainStatus = %v; want [%s]", rec.DomainStatus, StatusTokenAvailable)
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(time.Date(2026, 11, 20, 23, 59, 59, 0, time.UTC))
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"2026-11-20"` {
		t.Errorf("marshal = %s; want %q", data, "2026-11-20")
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip = %v; want %v", back, d)
	}
}
