package model

import "testing"

func TestCollectionName(t *testing.T) {
	if got := (&RemoteSettingsList{IsPreview: true}).CollectionName(); got != "nimbus-preview" {
		t.Fatal("unexpected collection", got)
	}
	if got := (&RemoteSettingsList{}).CollectionName(); got != "nimbus-mobile-experiments" {
		t.Fatal("unexpected collection", got)
	}
}
