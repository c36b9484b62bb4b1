//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

// Package integrity implements the two-level sharing scheme: mask the
// secret with a random first-level share, fold a salted hash of the
// secret into what actually goes through the Shamir codec, and verify
// everything on the way back out so a tampered share (or a tampered
// mask) is detected rather than silently reconstructed.
package integrity

import (
	"bytes"
	"context"

	"github.com/svalbard/svbd/internal/apperr"
	"github.com/svalbard/svbd/internal/crypto"
	"github.com/svalbard/svbd/internal/entity"
	"github.com/svalbard/svbd/internal/future"
	"github.com/svalbard/svbd/internal/manager"
	"github.com/svalbard/svbd/pkg/shamir"
)

// SchemeType names the sharing scheme this package implements, stored
// in SharingMetadata.SchemeType so a future build with a different
// codec can recognize and reject a metadata record it doesn't know
// how to recover.
const SchemeType = "shamir-gf264"

// hashSaltLength is the fixed byte length of hash_salt.
const hashSaltLength = 10

// SharingRequest names the inputs to Share: the secret to protect,
// the threshold scheme, and where each of the n second-level shares
// should be dispatched.
type SharingRequest struct {
	SecretName string
	Secret     []byte
	K, N       int
	Locations  []entity.ShareLocation
}

// Validate enforces the cross-field rules for a sharing request,
// beyond what the wire codec or pkg/shamir alone check.
func (r SharingRequest) Validate() error {
	if r.SecretName == "" {
		return apperr.New(apperr.KindInvalidArgument, "secret name must not be empty")
	}
	if len(r.Secret) == 0 {
		return apperr.New(apperr.KindInvalidArgument, "secret must not be empty")
	}
	if r.K <= 0 || r.K > r.N {
		return apperr.New(apperr.KindInvalidArgument, "k must be in [1, n]")
	}
	if len(r.Locations) != r.N {
		return apperr.New(apperr.KindInvalidArgument, "locations must have exactly n entries")
	}
	for _, loc := range r.Locations {
		if err := loc.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// FailedShare names a second-level share that Share could not
// automatically dispatch, alongside why, so the caller can follow up
// (print it, hand it to a courier, retry once a server is back up).
type FailedShare struct {
	Location entity.ShareLocation
	Err      error
}

// SharingResult is what a completed (or partially completed) Share
// call produces: the metadata record needed to recover later, and the
// list of shares that still need manual follow-up.
type SharingResult struct {
	Metadata         entity.SharingMetadata
	SharesToBeStored []FailedShare
}

// Share runs the two-level sharing pipeline: mask the secret, fold in
// a salted hash, split the result with the Shamir codec, and dispatch
// each resulting share through the manager registered for its
// location's type. Per-share dispatch failures never abort the
// sharing; the metadata record is produced regardless, and the caller
// is responsible for the shares SharingResult.SharesToBeStored lists.
func Share(ctx context.Context, registry *manager.Registry, req SharingRequest) (SharingResult, error) {
	if err := req.Validate(); err != nil {
		return SharingResult{}, err
	}

	hashSalt, err := crypto.NewSalt(hashSaltLength)
	if err != nil {
		return SharingResult{}, apperr.Wrap(apperr.KindTransport, "failed to draw hash salt", err)
	}
	sh1, err := crypto.RandomBytes(len(req.Secret))
	if err != nil {
		return SharingResult{}, apperr.Wrap(apperr.KindTransport, "failed to draw secret mask", err)
	}

	svHash, err := crypto.SaltedHash(req.Secret, hashSalt)
	if err != nil {
		return SharingResult{}, apperr.Wrap(apperr.KindInvalidArgument, "failed to hash secret", err)
	}
	sh2 := xor(req.Secret, sh1)
	sh2WithHash := append(append([]byte{}, svHash[:]...), sh2...)

	shares, err := shamir.Share(sh2WithHash, req.K, req.N)
	if err != nil {
		return SharingResult{}, apperr.Wrap(apperr.KindInvalidArgument, "failed to split secret", err)
	}

	scheme := entity.Scheme{K: req.K, N: req.N, FieldID: entity.FieldID}
	schemeBytes, err := scheme.MarshalBinary()
	if err != nil {
		return SharingResult{}, err
	}

	shareMetas := make([]entity.ShareMetadata, req.N)
	futures := make([]*future.Future[struct{}], req.N)
	for i := 0; i < req.N; i++ {
		shareHash, err := crypto.SaltedHash(shares[i].Bytes, hashSalt)
		if err != nil {
			return SharingResult{}, apperr.Wrap(apperr.KindInvalidArgument, "failed to hash share", err)
		}
		shareMetas[i] = entity.ShareMetadata{
			Location:  req.Locations[i],
			ShareHash: shareHash[:],
		}

		mgr, mgrErr := registry.For(req.Locations[i].Type)
		if mgrErr != nil {
			futures[i] = future.Done(struct{}{}, mgrErr)
			continue
		}
		futures[i] = mgr.Store(ctx, req.SecretName, shares[i].Bytes, req.Locations[i])
	}

	var failed []FailedShare
	for i, f := range futures {
		if _, err := f.Await(ctx); err != nil {
			failed = append(failed, FailedShare{Location: req.Locations[i], Err: err})
		}
	}

	metadata := entity.SharingMetadata{
		SchemeType: SchemeType,
		Scheme:     schemeBytes,
		SecretName: req.SecretName,
		SecretMask: sh1,
		HashSalt:   hashSalt,
		Shares:     shareMetas,
	}

	return SharingResult{Metadata: metadata, SharesToBeStored: failed}, nil
}

// ShareOutcome is the per-location result of one retrieval attempt
// during Recover: what was asked for, what (if anything) came back,
// and why it was excluded if it was.
type ShareOutcome struct {
	Metadata entity.ShareMetadata
	Bytes    []byte
	Err      error
}

// RecoveryResult is always returned from Recover, even when the
// overall call fails, so the caller can see which locations succeeded
// and which need a retry. Secret is only populated when err is nil.
type RecoveryResult struct {
	Secret        []byte
	ShareDataList []ShareOutcome
}

// Recover runs the two-level recovery pipeline against a previously
// produced SharingMetadata: retrieve each share, verify its salted
// hash, reconstruct with the Shamir codec once at least k shares have
// verified, then verify the recovered secret's own salted hash before
// returning it. Any failure short of enough verified shares — or a
// final hash mismatch — is reported without ever returning a
// partially reconstructed secret.
func Recover(ctx context.Context, registry *manager.Registry,
	metadata entity.SharingMetadata) (RecoveryResult, error) {
	if err := metadata.Validate(len(metadata.SecretMask)); err != nil {
		return RecoveryResult{}, err
	}

	var scheme entity.Scheme
	if metadata.SchemeType != SchemeType {
		return RecoveryResult{}, apperr.New(apperr.KindInvalidArgument,
			"unrecognized sharing scheme type: "+metadata.SchemeType)
	}
	if err := scheme.UnmarshalBinary(metadata.Scheme); err != nil {
		return RecoveryResult{}, err
	}

	futures := make([]*future.Future[[]byte], len(metadata.Shares))
	for i, sm := range metadata.Shares {
		if err := sm.Location.Validate(); err != nil {
			futures[i] = future.Done[[]byte](nil, err)
			continue
		}
		mgr, err := registry.For(sm.Location.Type)
		if err != nil {
			futures[i] = future.Done[[]byte](nil, err)
			continue
		}
		futures[i] = mgr.Retrieve(ctx, metadata.SecretName, sm.Location)
	}

	outcomes := make([]ShareOutcome, len(metadata.Shares))
	var verified []shamir.Share
	for i, sm := range metadata.Shares {
		retrieved, err := futures[i].Await(ctx)
		if err != nil {
			outcomes[i] = ShareOutcome{Metadata: sm, Err: err}
			continue
		}
		gotHash, hashErr := crypto.SaltedHash(retrieved, metadata.HashSalt)
		if hashErr != nil {
			outcomes[i] = ShareOutcome{Metadata: sm, Err: hashErr}
			continue
		}
		if !bytes.Equal(gotHash[:], sm.ShareHash) {
			outcomes[i] = ShareOutcome{
				Metadata: sm,
				Bytes:    retrieved,
				Err:      apperr.New(apperr.KindIntegrity, "share hash mismatch"),
			}
			continue
		}
		outcomes[i] = ShareOutcome{Metadata: sm, Bytes: retrieved}
		verified = append(verified, shamir.Share{Index: i + 1, Bytes: retrieved})
	}

	if len(verified) < scheme.K {
		return RecoveryResult{ShareDataList: outcomes},
			apperr.New(apperr.KindInsufficient, "too few shares")
	}

	sh2WithHash, err := shamir.Reconstruct(verified, scheme.K)
	if err != nil {
		return RecoveryResult{ShareDataList: outcomes},
			apperr.Wrap(apperr.KindIntegrity, "failed to reconstruct secret", err)
	}
	if len(sh2WithHash) < 32 {
		return RecoveryResult{ShareDataList: outcomes},
			apperr.New(apperr.KindIntegrity, "reconstructed value too short to contain a hash")
	}

	svHash := sh2WithHash[:32]
	sh2 := sh2WithHash[32:]
	svCandidate := xor(sh2, metadata.SecretMask)

	recomputed, err := crypto.SaltedHash(svCandidate, metadata.HashSalt)
	if err != nil {
		return RecoveryResult{ShareDataList: outcomes},
			apperr.Wrap(apperr.KindInvalidArgument, "failed to verify recovered secret", err)
	}
	if !bytes.Equal(recomputed[:], svHash) {
		return RecoveryResult{ShareDataList: outcomes},
			apperr.New(apperr.KindIntegrity, "incorrect hash")
	}

	return RecoveryResult{Secret: svCandidate, ShareDataList: outcomes}, nil
}

// xor returns a new slice holding a XOR b, byte by byte. Callers
// guarantee a and b are the same length: SH1 and the secret are both
// length L, and SH2 and the secret mask both come from sharings of
// the same original secret.
func xor(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}
