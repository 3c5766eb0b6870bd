package session

import (
	"context"
	"errors"
	"testing"
)

type fakeDirectory struct {
	riders  map[string]Account
	drivers map[string]Account
	err     error
}

func (f *fakeDirectory) RiderByEmail(ctx context.Context, email string) (Account, error) {
	if f.err != nil {
		return Account{}, f.err
	}
	acc, ok := f.riders[email]
	if !ok {
		return Account{}, ErrNoAccount
	}
	return acc, nil
}

func (f *fakeDirectory) DriverByEmail(ctx context.Context, email string) (Account, error) {
	if f.err != nil {
		return Account{}, f.err
	}
	acc, ok := f.drivers[email]
	if !ok {
		return Account{}, ErrNoAccount
	}
	return acc, nil
}

func newResolver(kv *fakeKV, dir Directory) *Resolver {
	return NewResolver(NewStore(kv), dir)
}

func TestResolveNoSessionsYieldsRoleSelect(t *testing.T) {
	r := newResolver(newFakeKV(), &fakeDirectory{})
	if got := r.Resolve(context.Background(), "dev1"); got != TargetRoleSelect {
		t.Fatalf("expected role selection, got %q", got)
	}
}

func TestResolveSingleRole(t *testing.T) {
	kv := newFakeKV()
	kv.data[RoleDriver.Key("dev1")] = `{"email":"d@x.com"}`
	r := newResolver(kv, &fakeDirectory{})

	if got := r.Resolve(context.Background(), "dev1"); got != TargetDriverMain {
		t.Fatalf("expected driver main, got %q", got)
	}

	kv2 := newFakeKV()
	kv2.data[RoleRider.Key("dev1")] = `{"email":"r@x.com"}`
	r2 := newResolver(kv2, &fakeDirectory{})
	if got := r2.Resolve(context.Background(), "dev1"); got != TargetRiderMain {
		t.Fatalf("expected rider main, got %q", got)
	}
}

func TestResolveDualSessionsRiderWins(t *testing.T) {
	kv := newFakeKV()
	kv.data[RoleRider.Key("dev1")] = `{"email":"r@x.com"}`
	kv.data[RoleDriver.Key("dev1")] = `{"email":"d@x.com"}`
	r := newResolver(kv, &fakeDirectory{})

	if got := r.Resolve(context.Background(), "dev1"); got != TargetRiderMain {
		t.Fatalf("rider target takes precedence with dual sessions, got %q", got)
	}
}

func TestResolveFailsOpenOnStorageFault(t *testing.T) {
	kv := newFakeKV()
	kv.failing = true
	r := newResolver(kv, &fakeDirectory{})

	if got := r.Resolve(context.Background(), "dev1"); got != TargetRoleSelect {
		t.Fatalf("storage fault must resolve to role selection, got %q", got)
	}
}

func TestValidateKeepsSessionForKnownAccount(t *testing.T) {
	kv := newFakeKV()
	kv.data[RoleRider.Key("dev1")] = `{"email":"r@x.com"}`
	dir := &fakeDirectory{riders: map[string]Account{"r@x.com": {Email: "r@x.com"}}}
	r := newResolver(kv, dir)

	if !r.Validate(context.Background(), RoleRider, "dev1", "r@x.com") {
		t.Fatal("existing account must validate")
	}
	if _, ok := kv.data[RoleRider.Key("dev1")]; !ok {
		t.Fatal("session key must survive a successful validation")
	}
}

func TestValidateRemovesSessionWhenAccountGone(t *testing.T) {
	kv := newFakeKV()
	kv.data[RoleDriver.Key("dev1")] = `{"email":"gone@x.com"}`
	r := newResolver(kv, &fakeDirectory{})

	if r.Validate(context.Background(), RoleDriver, "dev1", "gone@x.com") {
		t.Fatal("vanished account must fail validation")
	}
	if _, ok := kv.data[RoleDriver.Key("dev1")]; ok {
		t.Fatal("stale session key must be removed")
	}
}

func TestValidateTreatsLookupErrorAsInvalid(t *testing.T) {
	kv := newFakeKV()
	kv.data[RoleRider.Key("dev1")] = `{"email":"r@x.com"}`
	dir := &fakeDirectory{err: errors.New("directory unreachable")}
	r := newResolver(kv, dir)

	if r.Validate(context.Background(), RoleRider, "dev1", "r@x.com") {
		t.Fatal("directory error must collapse to validation failure")
	}
	if _, ok := kv.data[RoleRider.Key("dev1")]; ok {
		t.Fatal("session key must be removed on directory error too")
	}
}
