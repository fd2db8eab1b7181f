package utils

import "testing"

func TestBuildBillsListCacheKey(t *testing.T) {
	if got := BuildBillsListCacheKey(3, " A@B.com "); got != "bills:list:v1:gen=3:email=a@b.com" {
		t.Fatalf("unexpected key %q", got)
	}

	if got := BuildBillsListCacheKey(0, ""); got != "bills:list:v1:gen=0:email=*" {
		t.Fatalf("admin key should use wildcard, got %q", got)
	}

	if BuildBillsListCacheKey(1, "a@a") == BuildBillsListCacheKey(2, "a@a") {
		t.Fatalf("generations must produce distinct keys")
	}
}
