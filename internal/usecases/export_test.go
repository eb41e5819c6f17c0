package usecases

import "time"

// SetNowForTest pins the usecase clock and returns a restore func.
func SetNowForTest(fn func() time.Time) func() {
	prev := now
	now = fn
	return func() { now = prev }
}

// SetReferralCodeGeneratorForTest replaces the referral code source and returns a restore func.
func SetReferralCodeGeneratorForTest(fn func(int) (string, error)) func() {
	prev := generateReferralCode
	generateReferralCode = fn
	return func() { generateReferralCode = prev }
}

var CanonicalJSON = canonicalJSON
