// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RateLimitError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised     = ExistsError("already initialised")
	AuctionAlreadyHasBid   = InvalidError("auction already has a bid")
	AuctionAlreadySold     = InvalidError("auction already sold")
	AuctionNotFound        = NotFoundError("auction not found")
	BidBelowMinimum        = InvalidError("bid below minimum")
	BidIncrementTooSmall   = InvalidError("bid increment too small")
	BidOnOwnAuction        = InvalidError("bid on own auction")
	BuyoutUnavailable      = InvalidError("buyout unavailable")
	DuplicatePostingId     = ExistsError("duplicate posting id")
	HouseBusy              = RateLimitError("house busy")
	InsufficientFunds      = InvalidError("insufficient funds")
	InvalidCount           = InvalidError("invalid count")
	InvalidDuration        = InvalidError("invalid duration")
	InvalidFaction         = InvalidError("invalid faction")
	InvalidItem            = InvalidError("invalid item")
	InvalidLoggerChannel   = InvalidError("invalid logger channel")
	InvalidPriceRange      = InvalidError("invalid price range")
	ItemNotFound           = NotFoundError("item not found")
	MissingItemRecord      = ProcessError("missing item record")
	NotAuctionOwner        = InvalidError("not auction owner")
	NotAvailableInReadOnly = ProcessError("not available in read only mode")
	NotInitialised         = NotFoundError("not initialised")
	RateLimiting           = RateLimitError("rate limiting")
	StaleReplicationState  = InvalidError("stale replication state")
	StagingExpired         = ProcessError("staging entry expired")
	WrongDatabaseVersion   = ProcessError("wrong database version")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string    { return string(e) }
func (e InvalidError) Error() string   { return string(e) }
func (e LengthError) Error() string    { return string(e) }
func (e NotFoundError) Error() string  { return string(e) }
func (e ProcessError) Error() string   { return string(e) }
func (e RateLimitError) Error() string { return string(e) }

// IsErrExists - determine if an exists error
func IsErrExists(e error) bool { _, ok := e.(ExistsError); return ok }

// IsErrInvalid - determine if an invalid error
func IsErrInvalid(e error) bool { _, ok := e.(InvalidError); return ok }

// IsErrLength - determine if a length error
func IsErrLength(e error) bool { _, ok := e.(LengthError); return ok }

// IsErrNotFound - determine if a not found error
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }

// IsErrProcess - determine if a process error
func IsErrProcess(e error) bool { _, ok := e.(ProcessError); return ok }

// IsErrRateLimit - determine if a rate limit error
func IsErrRateLimit(e error) bool { _, ok := e.(RateLimitError); return ok }
