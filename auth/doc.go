// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, access tokens and ID generation.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(req.Password)
	err = auth.CheckPassword(hash, candidate) // ErrInvalidCredentials on mismatch

# Access Tokens

Login issues an HS256 JWT whose subject is the numeric user ID:

	token, err := auth.IssueToken(user.ID, user.Phone, secret, 24*time.Hour)
	userID, err := auth.ParseToken(token, secret)

# Registration IDs

Registration IDs are the short codes shown to farmers:

	regID := auth.GenerateRegistrationID(phone, salt) // "DS-3k9ZqT..."

They are HMAC-SHA256 of the phone number, base62 encoded.
Deterministic, so the same phone and salt always produce the same ID.

# ID Generation

Random hex IDs. Every access token carries one as its jti claim:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
