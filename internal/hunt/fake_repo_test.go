package hunt

import (
	"sort"
	"sync"
	"time"

	"github.com/onehunt/onehuntbot/internal/models"
)

// fakeRepo is an in-memory models.Repository used by the service tests. It
// mirrors the store's conditional-update semantics: balance mutations and
// status transitions are guarded the same way the SQL implementation guards
// them.
type fakeRepo struct {
	mu sync.Mutex

	nextUserID       uint
	nextRewardID     uint
	nextTxID         uint
	nextTaskID       uint
	nextCompletionID uint
	nextReferralID   uint

	users       map[uint]*models.User
	referrals   []*models.Referral
	rewards     []*models.Reward
	txs         map[uint]*models.Transaction
	tasks       map[uint]*models.Task
	completions []*models.TaskCompletion
	locks       map[string]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: make(map[uint]*models.User),
		txs:   make(map[uint]*models.Transaction),
		tasks: make(map[uint]*models.Task),
		locks: make(map[string]string),
	}
}

func (r *fakeRepo) Close() error { return nil }

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

// addUser seeds a user directly, bypassing registration.
func (r *fakeRepo) addUser(u *models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextUserID++
	u.ID = r.nextUserID
	if u.Level == 0 {
		u.Level = 1
	}
	r.users[u.ID] = copyUser(u)
	return u
}

func (r *fakeRepo) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextUserID++
	user.ID = r.nextUserID
	r.users[user.ID] = copyUser(user)
	return nil
}

func (r *fakeRepo) GetUserByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *fakeRepo) GetUserByTelegramID(telegramID int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.TelegramID == telegramID {
			return copyUser(u), nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeRepo) GetUserByReferralCode(code string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ReferralCode == code {
			return copyUser(u), nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeRepo) SaveUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return models.ErrNotFound
	}
	r.users[user.ID] = copyUser(user)
	return nil
}

func (r *fakeRepo) CreditBalance(userID uint, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.Balance += amount
	u.TotalEarned += amount
	return nil
}

func (r *fakeRepo) RefundBalance(userID uint, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.Balance += amount
	return nil
}

func (r *fakeRepo) DebitBalance(userID uint, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	if u.Balance < amount {
		return models.ErrInsufficientBalance
	}
	u.Balance -= amount
	return nil
}

func (r *fakeRepo) UpdateProgress(userID uint, xp int64, level int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.XP = xp
	u.Level = level
	return nil
}

func (r *fakeRepo) IncrementTotalWithdrawn(userID uint, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.TotalWithdrawn += amount
	return nil
}

func (r *fakeRepo) IncrementTasksCompleted(userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.TasksCompleted++
	return nil
}

func (r *fakeRepo) ClaimDaily(userID uint, claimedAt, dayStart time.Time, streak int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return false, models.ErrNotFound
	}
	if u.LastDailyReward != nil && !u.LastDailyReward.Before(dayStart) {
		return false, nil
	}
	t := claimedAt
	u.LastDailyReward = &t
	u.DailyRewardStreak = streak
	return true, nil
}

func (r *fakeRepo) SetReferrer(userID, referrerID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return false, models.ErrNotFound
	}
	if u.ReferredByID != nil {
		return false, nil
	}
	id := referrerID
	u.ReferredByID = &id
	return true, nil
}

func (r *fakeRepo) CreateReferral(referral *models.Referral) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextReferralID++
	referral.ID = r.nextReferralID
	c := *referral
	r.referrals = append(r.referrals, &c)
	return nil
}

func (r *fakeRepo) ListReferredUsers(referrerID uint, level int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, ref := range r.referrals {
		if ref.ReferrerID == referrerID && ref.Level == level {
			if u, ok := r.users[ref.ReferredID]; ok {
				out = append(out, copyUser(u))
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) CountReferrals(referrerID uint, level int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, ref := range r.referrals {
		if ref.ReferrerID == referrerID && ref.Level == level {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) CreateReward(reward *models.Reward) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextRewardID++
	reward.ID = r.nextRewardID
	if reward.CreatedAt.IsZero() {
		reward.CreatedAt = time.Now()
	}
	c := *reward
	r.rewards = append(r.rewards, &c)
	return nil
}

func (r *fakeRepo) ListRewards(userID uint, page, limit int) ([]*models.Reward, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var mine []*models.Reward
	for _, rw := range r.rewards {
		if rw.UserID == userID {
			c := *rw
			mine = append(mine, &c)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].ID > mine[j].ID })
	total := int64(len(mine))
	start := (page - 1) * limit
	if start >= len(mine) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[start:end], total, nil
}

func (r *fakeRepo) SumRewards(userID uint, rewardType string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, rw := range r.rewards {
		if rw.UserID == userID && rw.Type == rewardType {
			sum += rw.Amount
		}
	}
	return sum, nil
}

func (r *fakeRepo) CreateTransaction(tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextTxID++
	tx.ID = r.nextTxID
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	c := *tx
	r.txs[tx.ID] = &c
	return nil
}

func (r *fakeRepo) GetUserWithdrawal(id, userID uint) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok || tx.UserID != userID || tx.Type != models.TxWithdrawal {
		return nil, models.ErrNotFound
	}
	c := *tx
	return &c, nil
}

func (r *fakeRepo) GetTransactionByID(id uint) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := *tx
	return &c, nil
}

func (r *fakeRepo) ListTransactions(userID uint, txType string, page, limit int) ([]*models.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var mine []*models.Transaction
	for _, tx := range r.txs {
		if tx.UserID == userID && (txType == "" || tx.Type == txType) {
			c := *tx
			mine = append(mine, &c)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].ID > mine[j].ID })
	total := int64(len(mine))
	start := (page - 1) * limit
	if start >= len(mine) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[start:end], total, nil
}

func (r *fakeRepo) TransitionWithdrawal(tx *models.Transaction, fromStatus string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.txs[tx.ID]
	if !ok {
		return false, models.ErrNotFound
	}
	if stored.Status != fromStatus {
		return false, nil
	}
	stored.Status = tx.Status
	stored.TransactionHash = tx.TransactionHash
	stored.AdminNotes = tx.AdminNotes
	stored.ProcessedByID = tx.ProcessedByID
	stored.ProcessedAt = tx.ProcessedAt
	return true, nil
}

func (r *fakeRepo) CreateTask(task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextTaskID++
	task.ID = r.nextTaskID
	c := *task
	r.tasks[task.ID] = &c
	return nil
}

func (r *fakeRepo) SaveTask(task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return models.ErrNotFound
	}
	c := *task
	r.tasks[task.ID] = &c
	return nil
}

func (r *fakeRepo) DeleteTask(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeRepo) GetTaskByID(id uint) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := *task
	return &c, nil
}

func (r *fakeRepo) ListActiveTasks() ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Task
	for _, task := range r.tasks {
		if task.IsActive {
			c := *task
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) ListTasksByType(taskType string) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Task
	for _, task := range r.tasks {
		if task.IsActive && task.Type == taskType {
			c := *task
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) CreateTaskCompletion(completion *models.TaskCompletion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextCompletionID++
	completion.ID = r.nextCompletionID
	c := *completion
	r.completions = append(r.completions, &c)
	return nil
}

func (r *fakeRepo) GetVerifiedCompletion(userID, taskID uint) (*models.TaskCompletion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.completions {
		if c.UserID == userID && c.TaskID == taskID && c.Status == models.CompletionVerified {
			cc := *c
			return &cc, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeRepo) ListCompletions(userID uint) ([]*models.TaskCompletion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.TaskCompletion
	for _, c := range r.completions {
		if c.UserID == userID {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (r *fakeRepo) IncrementTaskCompletions(taskID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[taskID]
	if !ok {
		return models.ErrNotFound
	}
	task.CurrentCompletions++
	return nil
}

func (r *fakeRepo) DeactivateExpiredTasks(now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, task := range r.tasks {
		if task.IsActive && task.EndDate != nil && now.After(*task.EndDate) {
			task.IsActive = false
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) TopUsersByBalance(limit int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Balance > out[j].Balance })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepo) TopUsersByLevel(limit int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level > out[j].Level
		}
		return out[i].XP > out[j].XP
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepo) TopReferrers(limit int) ([]*models.ReferrerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byUser := make(map[uint]*models.ReferrerStats)
	for _, ref := range r.referrals {
		stats, ok := byUser[ref.ReferrerID]
		if !ok {
			u := r.users[ref.ReferrerID]
			if u == nil {
				continue
			}
			stats = &models.ReferrerStats{UserID: u.ID, Username: u.Username, FirstName: u.FirstName}
			byUser[ref.ReferrerID] = stats
		}
		if ref.Level == referralLevelDirect {
			stats.DirectCount++
		} else {
			stats.IndirectCount++
		}
		stats.TotalCount++
	}
	out := make([]*models.ReferrerStats, 0, len(byUser))
	for _, s := range byUser {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalCount > out[j].TotalCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepo) CountUsersWithHigherBalance(balance int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Balance > balance {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) CountUsersRankedAbove(level int, xp int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Level > level || (u.Level == level && u.XP > xp) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) AcquireLock(name, instanceID string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if holder, ok := r.locks[name]; ok && holder != instanceID {
		return false, nil
	}
	r.locks[name] = instanceID
	return true, nil
}

func (r *fakeRepo) ReleaseLock(name, instanceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locks[name] == instanceID {
		delete(r.locks, name)
	}
	return nil
}
