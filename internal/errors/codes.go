package errors

// Error code constants returned in API error responses.
// Format: CATEGORY_SPECIFIC_DETAIL. The storefront maps these codes to
// user-facing copy, so the strings are part of the API contract.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // malformed request body
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // unparseable identifier
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // value out of range
	ValidationRequired     = "VALIDATION_REQUIRED"      // missing required field

	// ==================== Client identity (CLIENT_) ====================
	ClientIDMissing = "CLIENT_ID_MISSING" // no client ID could be resolved

	// ==================== Catalog (PRODUCT_) ====================
	ProductNotFound     = "PRODUCT_NOT_FOUND"     // unknown product
	ProductOutOfStock   = "PRODUCT_OUT_OF_STOCK"  // requested quantity exceeds stock
	ProductBulkDisabled = "PRODUCT_BULK_DISABLED" // no enabled bulk tier

	// ==================== Cart (CART_) ====================
	CartEmpty = "CART_EMPTY" // checkout attempted on an empty cart

	// ==================== Orders (ORDER_) ====================
	OrderNotFound = "ORDER_NOT_FOUND" // unknown order or wrong client

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // generic missing resource
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // duplicate resource

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // unclassified server error
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // database failure
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // external service failure
)
