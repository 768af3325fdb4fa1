package domain

const (
	RoleCustomer = "CUSTOMER"
	RoleAgent    = "AGENT"
	RoleDealer   = "DEALER"
	RoleAdmin    = "ADMIN"
)

const (
	OrderStatusProcessing = "PROCESSING"
	OrderStatusCompleted  = "COMPLETED"
	OrderStatusFailed     = "FAILED"
	OrderStatusRefunded   = "REFUNDED"
)

// Commission and referral-commission rows move strictly forward:
// PENDING -> AVAILABLE -> WITHDRAWN. A rejected withdrawal returns its
// WITHDRAWN rows to AVAILABLE.
const (
	CommissionStatusPending   = "PENDING"
	CommissionStatusAvailable = "AVAILABLE"
	CommissionStatusWithdrawn = "WITHDRAWN"
)

const (
	WithdrawalStatusPending    = "PENDING"
	WithdrawalStatusProcessing = "PROCESSING"
	WithdrawalStatusApproved   = "APPROVED"
	WithdrawalStatusPaid       = "PAID"
	WithdrawalStatusRejected   = "REJECTED"
)

const (
	WalletTxTypeTopup          = "TOPUP"
	WalletTxTypeOrderPayment   = "ORDER_PAYMENT"
	WalletTxTypeOrderRefund    = "ORDER_REFUND"
	WalletTxTypeRecoveryCredit = "RECOVERY_CREDIT"
)

const (
	NetworkMTN        = "MTN"
	NetworkTelecel    = "TELECEL"
	NetworkAirtelTigo = "AIRTELTIGO"
)

// IsSeller reports whether the role may run a shop and earn commission.
func IsSeller(role string) bool {
	return role == RoleAgent || role == RoleDealer
}
