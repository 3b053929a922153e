package api

const (
	AuthServiceName       = "splitledger.v1.AuthService"
	UserServiceName       = "splitledger.v1.UserService"
	CategoryServiceName   = "splitledger.v1.CategoryService"
	GroupServiceName      = "splitledger.v1.GroupService"
	ExpenseServiceName    = "splitledger.v1.ExpenseService"
	SettlementServiceName = "splitledger.v1.SettlementService"
	FeedbackServiceName   = "splitledger.v1.FeedbackService"
)

// AuthService procedures.
const (
	AuthRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"
)

// UserService procedures.
const (
	UserGetUserProcedure      = "/" + UserServiceName + "/GetUser"
	UserListUsersProcedure    = "/" + UserServiceName + "/ListUsers"
	UserSearchUsersProcedure  = "/" + UserServiceName + "/SearchUsers"
	UserAddFriendProcedure    = "/" + UserServiceName + "/AddFriend"
	UserRemoveFriendProcedure = "/" + UserServiceName + "/RemoveFriend"
	UserListFriendsProcedure  = "/" + UserServiceName + "/ListFriends"
)

// CategoryService procedures.
const (
	CategoryAddCategoryProcedure    = "/" + CategoryServiceName + "/AddCategory"
	CategoryListCategoriesProcedure = "/" + CategoryServiceName + "/ListCategories"
)

// GroupService procedures.
const (
	GroupCreateGroupProcedure  = "/" + GroupServiceName + "/CreateGroup"
	GroupGetGroupProcedure     = "/" + GroupServiceName + "/GetGroup"
	GroupListGroupsProcedure   = "/" + GroupServiceName + "/ListGroups"
	GroupSearchGroupsProcedure = "/" + GroupServiceName + "/SearchGroups"
	GroupListMembersProcedure  = "/" + GroupServiceName + "/ListMembers"
	GroupAddMemberProcedure    = "/" + GroupServiceName + "/AddMember"
	GroupDeleteGroupProcedure  = "/" + GroupServiceName + "/DeleteGroup"
)

// ExpenseService procedures.
const (
	ExpenseRecordExpenseProcedure       = "/" + ExpenseServiceName + "/RecordExpense"
	ExpenseEditExpenseProcedure         = "/" + ExpenseServiceName + "/EditExpense"
	ExpenseDeleteExpenseProcedure       = "/" + ExpenseServiceName + "/DeleteExpense"
	ExpenseGetExpenseProcedure          = "/" + ExpenseServiceName + "/GetExpense"
	ExpenseListExpensesProcedure        = "/" + ExpenseServiceName + "/ListExpenses"
	ExpenseListUserExpensesProcedure    = "/" + ExpenseServiceName + "/ListUserExpenses"
	ExpenseListExpensesByDateProcedure  = "/" + ExpenseServiceName + "/ListExpensesByDate"
	ExpenseRecordSharedExpenseProcedure = "/" + ExpenseServiceName + "/RecordSharedExpense"
	ExpenseEditSharedExpenseProcedure   = "/" + ExpenseServiceName + "/EditSharedExpense"
	ExpenseDeleteSharedExpenseProcedure = "/" + ExpenseServiceName + "/DeleteSharedExpense"
	ExpenseGetSharedExpenseProcedure    = "/" + ExpenseServiceName + "/GetSharedExpense"
	ExpenseListGroupExpensesProcedure   = "/" + ExpenseServiceName + "/ListGroupExpenses"
	ExpenseListSharedByDateProcedure    = "/" + ExpenseServiceName + "/ListSharedExpensesByDate"
)

// SettlementService procedures.
const (
	SettlementSettleAllProcedure     = "/" + SettlementServiceName + "/SettleAll"
	SettlementRecordSettledProcedure = "/" + SettlementServiceName + "/RecordSettledExpense"
	SettlementListSettledProcedure   = "/" + SettlementServiceName + "/ListSettledExpenses"
	SettlementDeleteSettledProcedure = "/" + SettlementServiceName + "/DeleteSettledExpense"
)

// FeedbackService procedures.
const (
	FeedbackSubmitProcedure = "/" + FeedbackServiceName + "/SubmitFeedback"
)
