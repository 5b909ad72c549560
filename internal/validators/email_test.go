package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmailDomainValid(t *testing.T) {
	orig := LookupDomain
	t.Cleanup(func() { LookupDomain = orig })

	LookupDomain = func(domain string) bool { return domain == "salon.example" }

	assert.True(t, IsEmailDomainValid("ana@salon.example"))
	assert.False(t, IsEmailDomainValid("ana@nowhere.example"))
	assert.False(t, IsEmailDomainValid("ana@"))
	assert.False(t, IsEmailDomainValid("not an email"))
	assert.False(t, IsEmailDomainValid("Ana <ana@salon.example>"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@salon.example", NormalizeEmail("  Ana@Salon.Example "))
}
