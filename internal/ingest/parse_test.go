package ingest

import (
	"reflect"
	"testing"
)

func TestParseAddresses(t *testing.T) {
	got, err := ParseAddresses([]string{
		"0x3e43cB385A6925986e7ea0f0dcdAEc06673d4e10",
		" ",
		"0X20EF84969F6D81FF74AE4591C331858B20AD82CD",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"0x3e43cb385a6925986e7ea0f0dcdaec06673d4e10",
		"0x20ef84969f6d81ff74ae4591c331858b20ad82cd",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("addresses mismatch: %v != %v", got, want)
	}
}

func TestParseAddressesInvalid(t *testing.T) {
	if _, err := ParseAddresses([]string{"0x1234"}); err == nil {
		t.Fatalf("expected error for short address")
	}
}
