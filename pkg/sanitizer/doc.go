// Package sanitizer normalizes booking form input before validation and storage.
//
// All functions are idempotent and never fail: input that cannot be normalized
// is returned trimmed, so that validation decides what is acceptable.
//
// Normalization includes:
//   - Strings: collapse whitespace, trim leading/trailing spaces
//   - Phone numbers: E.164 via libphonenumber, using a default region for national numbers
//   - Emails: trimmed and lower-cased
//
// Contact normalization feeds the duplicate-booking key, so two submissions that
// differ only in phone formatting are recognised as the same booking.
package sanitizer
