package hashing_test

import (
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/hasbyte1/go-password-digest/hashing"
)

var digestPattern = regexp.MustCompile(`^[0-9A-F]{64}$`)

func newTestLegacyHasher(t *testing.T) *hashing.LegacyHasher {
	t.Helper()
	return hashing.NewLegacyHasher(hashing.DefaultLegacyOptions())
}

// resetDefaultLegacy restores the process-wide configuration when t ends.
func resetDefaultLegacy(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		hashing.Configure(hashing.DefaultLegacySalt, hashing.DefaultLegacyModulus)
	})
}

// Digests produced by the reference implementation with the default salt
// and modulus.
var legacyGolden = []struct {
	password string
	want     string
}{
	{"abcd", "AB58D732C059350F95B948ACB625FBD1DB99BB7EC05EDECE4D1758E8660DA37E"},
	{"", "B7E20F6E7DE289BD671ED6DD72EBF5674AD579C030C57ABFFAD89845EC45FC67"},
	{"a", "10CECDFA89576ED49102B20044F32B5A84C1D3498619E1AC7EE0C271052991D9"},
	{"password", "E38CC12C4C3BDEC1A9689D0B2198DE1B93BFDB01333CC4EA76000B4730B854EE"},
	{"hunter2", "0B4C212368D814EBF276041E76562B04E027640B447039C836982C274B5E881A"},
	{"héllo", "03F047F38915856022CFC99CE972E41278BB712607AE7725E42DA6686814B271"},
	{"пароль", "14180F0CD489A34199287E097E46E613711529599C9485AF7360BBB6E6DCB195"},
}

// ──────────────────────────────────────────────────────────────────────────────
// Configuration
// ──────────────────────────────────────────────────────────────────────────────

func TestDefaultLegacyOptions(t *testing.T) {
	opts := hashing.DefaultLegacyOptions()
	if opts.Salt != "put your soul(or salt) here" {
		t.Errorf("salt = %q", opts.Salt)
	}
	if opts.Modulus != 65521 {
		t.Errorf("modulus = %d, want 65521", opts.Modulus)
	}
}

func TestNewLegacyHasher_EmptyOptionsKeepDefaults(t *testing.T) {
	h := hashing.NewLegacyHasher(hashing.LegacyOptions{})
	got := h.Options()
	if got.Salt != hashing.DefaultLegacySalt || got.Modulus != hashing.DefaultLegacyModulus {
		t.Errorf("got (%q, %d), want defaults", got.Salt, got.Modulus)
	}
}

func TestLegacyHasher_Configure(t *testing.T) {
	h := newTestLegacyHasher(t)

	h.Configure("pepper", 0)
	if o := h.Options(); o.Salt != "pepper" || o.Modulus != hashing.DefaultLegacyModulus {
		t.Errorf("after salt update: (%q, %d)", o.Salt, o.Modulus)
	}

	h.Configure("", 101)
	if o := h.Options(); o.Salt != "pepper" || o.Modulus != 101 {
		t.Errorf("after modulus update: (%q, %d)", o.Salt, o.Modulus)
	}

	h.Configure("", 0)
	if o := h.Options(); o.Salt != "pepper" || o.Modulus != 101 {
		t.Errorf("empty update must be a no-op: (%q, %d)", o.Salt, o.Modulus)
	}
}

func TestLegacyHasher_ConfigurationPersists(t *testing.T) {
	h := newTestLegacyHasher(t)
	h.Configure("X", 0)
	got, err := h.Make("password")
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	const want = "AB8CFB9AF49597D29581F5E4F82A0B4D7602945587D3E0D94494DDD1AED18D7E"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLegacyHasher_GetHashOverridesPersist(t *testing.T) {
	h := newTestLegacyHasher(t)
	first, _ := h.GetHash("password", "X", 101)
	second, _ := h.Make("password")
	if first != second {
		t.Error("overrides passed to GetHash must persist for later calls")
	}
	if o := h.Options(); o.Salt != "X" || o.Modulus != 101 {
		t.Errorf("options = (%q, %d), want (X, 101)", o.Salt, o.Modulus)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Checksum
// ──────────────────────────────────────────────────────────────────────────────

func TestLegacyHasher_Checksum_ReferenceVector(t *testing.T) {
	h := newTestLegacyHasher(t)
	sum, err := h.Checksum("abcd", 0, 0)
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	if sum.String() != "C4002601" {
		t.Errorf("got %s, want C4002601", sum)
	}
}

func TestLegacyHasher_Checksum_UsesConfiguredModulus(t *testing.T) {
	h := newTestLegacyHasher(t)
	h.Configure("", 7)
	sum, err := h.Checksum("abcd", 0, 0)
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	if sum.String() != "00000000" {
		t.Errorf("got %s, want 00000000", sum)
	}
}

func TestLegacyHasher_Checksum_Latin1Text(t *testing.T) {
	h := newTestLegacyHasher(t)
	// "é" is a single byte, 0xE9: sum = 1+233 = 234, rolled = 234.
	sum, err := h.Checksum("éé", 0, 0)
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	if sum.Uint32() != 234<<16|234 {
		t.Errorf("got %08x", sum.Uint32())
	}
}

func TestLegacyHasher_Checksum_OutOfRange(t *testing.T) {
	h := newTestLegacyHasher(t)
	for _, tc := range []struct{ start, length int }{{3, 2}, {0, 5}, {10, 0}} {
		_, err := h.Checksum("abcd", tc.start, tc.length)
		if !errors.Is(err, hashing.ErrIndexOutOfRange) {
			t.Errorf("start=%d length=%d: expected ErrIndexOutOfRange, got %v",
				tc.start, tc.length, err)
		}
	}
}

func TestLegacyHasher_Checksum_Overflow(t *testing.T) {
	h := newTestLegacyHasher(t)
	_, err := h.Checksum("пароль", 0, 0)
	if !errors.Is(err, hashing.ErrEncodingOverflow) {
		t.Errorf("expected ErrEncodingOverflow, got %v", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// GetHash
// ──────────────────────────────────────────────────────────────────────────────

func TestLegacyHasher_GetHash_Golden(t *testing.T) {
	h := newTestLegacyHasher(t)
	for _, tc := range legacyGolden {
		got, err := h.GetHash(tc.password, "", 0)
		if err != nil {
			t.Errorf("%q: %v", tc.password, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: got %s, want %s", tc.password, got, tc.want)
		}
	}
}

func TestLegacyHasher_GetHash_Format(t *testing.T) {
	h := newTestLegacyHasher(t)
	for _, pw := range []string{"", "x", "correct horse battery staple", "密码", "😀", "\xff\xfe"} {
		got, err := h.GetHash(pw, "", 0)
		if err != nil {
			t.Errorf("%q: %v", pw, err)
			continue
		}
		if !digestPattern.MatchString(got) {
			t.Errorf("%q: %q is not 64 uppercase hex characters", pw, got)
		}
	}
}

func TestLegacyHasher_GetHash_Deterministic(t *testing.T) {
	h := newTestLegacyHasher(t)
	for _, pw := range []string{"password", "密码", "😀"} {
		a, _ := h.Make(pw)
		b, _ := h.Make(pw)
		if a != b {
			t.Errorf("%q: digests differ between calls", pw)
		}
	}
}

func TestLegacyHasher_GetHash_SaltSensitivity(t *testing.T) {
	a, _ := newTestLegacyHasher(t).GetHash("password", "salt-a", 0)
	b, _ := newTestLegacyHasher(t).GetHash("password", "salt-b", 0)
	if a == b {
		t.Error("different salts must produce different digests")
	}
}

func TestLegacyHasher_GetHash_ModulusSensitivity(t *testing.T) {
	a, _ := newTestLegacyHasher(t).GetHash("password", "", 0)
	b, _ := newTestLegacyHasher(t).GetHash("password", "", 101)
	if a == b {
		t.Error("different moduli must produce different digests")
	}
	const want = "04879F71F4D98BBA55821D305AF2921C26B21EFC7BCD2BD04625A6D1E4259D0D"
	if b != want {
		t.Errorf("modulus 101: got %s, want %s", b, want)
	}
}

func TestLegacyHasher_GetHash_FallbackIsLossy(t *testing.T) {
	// "п" re-encodes to "?\x04", so both passwords digest the same bytes.
	h := newTestLegacyHasher(t)
	a, err := h.Make("п")
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	b, _ := h.Make("п")
	c, _ := h.Make("?\x04")
	if a != b || a != c {
		t.Errorf("fallback digest %s should equal digest of its re-encoding %s", a, c)
	}
}

func TestLegacyHasher_GetHash_SaltOverflow(t *testing.T) {
	h := newTestLegacyHasher(t)
	_, err := h.GetHash("password", "соль", 0)
	if !errors.Is(err, hashing.ErrEncodingOverflow) {
		t.Errorf("expected ErrEncodingOverflow, got %v", err)
	}
}

func TestLegacyHasher_GetHash_ConcurrentOverridesStayPaired(t *testing.T) {
	type pair struct {
		salt string
		mod  uint32
	}
	pairs := []pair{{"salt-a", 101}, {"salt-b", 65521}, {"salt-c", 7}}
	want := make(map[pair]string, len(pairs))
	for _, p := range pairs {
		want[p], _ = hashing.NewLegacyHasher(hashing.LegacyOptions{Salt: p.salt, Modulus: p.mod}).Make("password")
	}

	h := newTestLegacyHasher(t)
	var wg sync.WaitGroup
	errs := make(chan string, 60)
	for i := 0; i < 60; i++ {
		p := pairs[i%len(pairs)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := h.GetHash("password", p.salt, p.mod)
			if err != nil || got != want[p] {
				errs <- p.salt
			}
		}()
	}
	wg.Wait()
	close(errs)
	for s := range errs {
		t.Errorf("digest for %s was computed from a mixed configuration", s)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Hasher interface
// ──────────────────────────────────────────────────────────────────────────────

func TestLegacyHasher_SatisfiesHasherInterface(t *testing.T) {
	var _ hashing.Hasher = newTestLegacyHasher(t)
}

func TestLegacyHasher_Driver(t *testing.T) {
	if d := newTestLegacyHasher(t).Driver(); d != hashing.DriverLegacy {
		t.Errorf("got %q, want legacy", d)
	}
}

func TestLegacyHasher_Check(t *testing.T) {
	h := newTestLegacyHasher(t)
	stored, _ := h.Make("hunter2")

	ok, err := h.Check("hunter2", stored)
	if err != nil || !ok {
		t.Errorf("correct password: ok=%v err=%v", ok, err)
	}
	ok, err = h.Check("hunter3", stored)
	if err != nil || ok {
		t.Errorf("wrong password: ok=%v err=%v", ok, err)
	}
}

func TestLegacyHasher_Check_RejectsOtherFormats(t *testing.T) {
	h := newTestLegacyHasher(t)
	for _, bad := range []string{
		"",
		"ab58d732c059350f95b948acb625fbd1db99bb7ec05edece4d1758e8660da37e",
		"$argon2id$v=19$m=16,t=1,p=2$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5",
	} {
		if _, err := h.Check("abcd", bad); !errors.Is(err, hashing.ErrAlgorithmMismatch) {
			t.Errorf("%q: expected ErrAlgorithmMismatch, got %v", bad, err)
		}
	}
}

func TestLegacyHasher_NeedsRehash(t *testing.T) {
	h := newTestLegacyHasher(t)
	stored, _ := h.Make("x")
	needs, err := h.NeedsRehash(stored)
	if err != nil || needs {
		t.Errorf("needs=%v err=%v, want false, nil", needs, err)
	}
	if _, err := h.NeedsRehash("nope"); !errors.Is(err, hashing.ErrAlgorithmMismatch) {
		t.Errorf("expected ErrAlgorithmMismatch, got %v", err)
	}
}

func TestLegacyHasher_Info(t *testing.T) {
	h := newTestLegacyHasher(t)
	stored, _ := h.Make("x")
	info, err := h.Info(stored)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Driver != hashing.DriverLegacy {
		t.Errorf("driver = %q", info.Driver)
	}
	if info.Params["algorithm"] != "sha256" || info.Params["modulus"] != hashing.DefaultLegacyModulus {
		t.Errorf("params = %v", info.Params)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Package-level functions
// ──────────────────────────────────────────────────────────────────────────────

func TestGetHash_DefaultConfiguration(t *testing.T) {
	resetDefaultLegacy(t)
	got, err := hashing.GetHash("abcd", "", 0)
	if err != nil {
		t.Fatalf("GetHash: %v", err)
	}
	if got != legacyGolden[0].want {
		t.Errorf("got %s, want %s", got, legacyGolden[0].want)
	}
}

func TestConfigure_AffectsLaterGetHash(t *testing.T) {
	resetDefaultLegacy(t)
	hashing.Configure("X", 0)
	got, _ := hashing.GetHash("password", "", 0)
	const want = "AB8CFB9AF49597D29581F5E4F82A0B4D7602945587D3E0D94494DDD1AED18D7E"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if hashing.DefaultLegacyHasher().Options().Salt != "X" {
		t.Error("process-wide salt was not updated")
	}
}
