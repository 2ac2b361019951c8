package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
	"github.com/portfoliotracker/backoffice-api/internal/core/ports"
)

const (
	portfoliosCollection   = "portfolios"
	cashBalancesCollection = "cash_balances"
)

// PortfolioRepository implements ports.PortfolioRepository on MongoDB.
// Uniqueness of (customer_id, name, exchange) and (portfolio_id, currency)
// is enforced by compound unique indexes; a duplicate-key rejection is
// classified into the matching domain error so services never inspect
// driver errors.
type PortfolioRepository struct {
	portfolios *mongo.Collection
	balances   *mongo.Collection
}

func NewPortfolioRepository(db *mongo.Database) *PortfolioRepository {
	return &PortfolioRepository{
		portfolios: db.Collection(portfoliosCollection),
		balances:   db.Collection(cashBalancesCollection),
	}
}

type portfolioDoc struct {
	ID           string    `bson:"_id"`
	CustomerID   string    `bson:"customer_id"`
	Name         string    `bson:"name"`
	Exchange     string    `bson:"exchange"`
	BaseCurrency string    `bson:"base_currency"`
	Active       bool      `bson:"active"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toPortfolioDoc(p *domain.Portfolio) portfolioDoc {
	return portfolioDoc{
		ID:           p.ID,
		CustomerID:   p.CustomerID,
		Name:         p.Name,
		Exchange:     string(p.Exchange),
		BaseCurrency: string(p.BaseCurrency),
		Active:       p.Active,
		CreatedAt:    p.CreatedAt.UTC(),
		UpdatedAt:    p.UpdatedAt.UTC(),
	}
}

func (d portfolioDoc) toDomain() domain.Portfolio {
	return domain.Portfolio{
		ID:           d.ID,
		CustomerID:   d.CustomerID,
		Name:         d.Name,
		Exchange:     domain.Exchange(d.Exchange),
		BaseCurrency: domain.Currency(d.BaseCurrency),
		Active:       d.Active,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// Amounts are stored as decimal strings to avoid float drift.
type cashBalanceDoc struct {
	ID          string    `bson:"_id"`
	PortfolioID string    `bson:"portfolio_id"`
	Currency    string    `bson:"currency"`
	Amount      string    `bson:"amount"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (r *PortfolioRepository) Create(ctx context.Context, p *domain.Portfolio) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.portfolios.InsertOne(ctx, toPortfolioDoc(p)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicatePortfolio
		}
		return fmt.Errorf("insert portfolio: %w", err)
	}
	return nil
}

func (r *PortfolioRepository) FindByID(ctx context.Context, customerID, portfolioID string) (*domain.Portfolio, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d portfolioDoc
	err := r.portfolios.FindOne(ctx, bson.M{"_id": portfolioID, "customer_id": customerID}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("find portfolio: %w", err)
	}
	p := d.toDomain()
	return &p, nil
}

func (r *PortfolioRepository) FindByTriple(ctx context.Context, customerID, name string, exchange domain.Exchange) (*domain.Portfolio, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"customer_id": customerID,
		"name":        name,
		"exchange":    string(exchange),
	}

	var d portfolioDoc
	if err := r.portfolios.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("find portfolio by triple: %w", err)
	}
	p := d.toDomain()
	return &p, nil
}

func (r *PortfolioRepository) ListByCustomer(ctx context.Context, customerID string, page ports.PageRequest) ([]domain.Portfolio, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"customer_id": customerID}

	total, err := r.portfolios.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count portfolios: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Size))

	cur, err := r.portfolios.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list portfolios: %w", err)
	}
	defer cur.Close(ctx)

	var items []domain.Portfolio
	for cur.Next(ctx) {
		var d portfolioDoc
		if err := cur.Decode(&d); err != nil {
			return nil, 0, fmt.Errorf("decode portfolio: %w", err)
		}
		items = append(items, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list portfolios: %w", err)
	}
	return items, total, nil
}

func (r *PortfolioRepository) Update(ctx context.Context, p *domain.Portfolio) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.portfolios.ReplaceOne(ctx, bson.M{"_id": p.ID}, toPortfolioDoc(p))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicatePortfolio
		}
		return fmt.Errorf("update portfolio: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPortfolioNotFound
	}
	return nil
}

// BOList runs the back-office listing as a single aggregation joining the
// customer name, with filters, sort, and pagination applied server-side.
func (r *PortfolioRepository) BOList(ctx context.Context, filter ports.BOPortfolioFilter) ([]ports.BOPortfolioRecord, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if filter.Active != nil {
		match["active"] = *filter.Active
	}
	if filter.Exchange != "" {
		match["exchange"] = string(filter.Exchange)
	}
	if filter.BaseCurrency != "" {
		match["base_currency"] = string(filter.BaseCurrency)
	}
	if filter.CustomerID != "" {
		match["customer_id"] = filter.CustomerID
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: customersCollection},
			{Key: "localField", Value: "customer_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "customer"},
		}}},
		bson.D{{Key: "$unwind", Value: "$customer"}},
	}

	if filter.Search != "" {
		re := bson.M{"$regex": filter.Search, "$options": "i"}
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{
			"$or": bson.A{
				bson.M{"name": re},
				bson.M{"customer.full_name": re},
			},
		}}})
	}

	countPipeline := append(mongo.Pipeline{}, pipeline...)
	countPipeline = append(countPipeline, bson.D{{Key: "$count", Value: "total"}})

	order := 1
	if filter.Descending {
		order = -1
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: boSortKey(filter.SortBy), Value: order}}}},
		bson.D{{Key: "$skip", Value: filter.Page.Offset()}},
		bson.D{{Key: "$limit", Value: filter.Page.Size}},
	)

	total, err := r.aggregateCount(ctx, countPipeline)
	if err != nil {
		return nil, 0, err
	}

	cur, err := r.portfolios.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("bo list portfolios: %w", err)
	}
	defer cur.Close(ctx)

	type joinedDoc struct {
		portfolioDoc `bson:",inline"`
		Customer     customerDoc `bson:"customer"`
	}

	var records []ports.BOPortfolioRecord
	for cur.Next(ctx) {
		var jd joinedDoc
		if err := cur.Decode(&jd); err != nil {
			return nil, 0, fmt.Errorf("decode portfolio: %w", err)
		}
		records = append(records, ports.BOPortfolioRecord{
			Portfolio:    jd.portfolioDoc.toDomain(),
			CustomerName: jd.Customer.FullName,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("bo list portfolios: %w", err)
	}
	return records, total, nil
}

func (r *PortfolioRepository) aggregateCount(ctx context.Context, pipeline mongo.Pipeline) (int64, error) {
	cur, err := r.portfolios.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("count portfolios: %w", err)
	}
	defer cur.Close(ctx)

	var out struct {
		Total int64 `bson:"total"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&out); err != nil {
			return 0, fmt.Errorf("decode count: %w", err)
		}
	}
	return out.Total, cur.Err()
}

// UpsertCashBalance sets the amount for (portfolio, currency). Two
// concurrent upserts can both take the insert path; the unique index
// rejects the loser, whose retry then matches the winner's document.
func (r *PortfolioRepository) UpsertCashBalance(ctx context.Context, b *domain.CashBalance) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"portfolio_id": b.PortfolioID, "currency": string(b.Currency)}
	update := bson.M{
		"$set": bson.M{
			"amount":     b.Amount.String(),
			"updated_at": b.UpdatedAt.UTC(),
		},
		"$setOnInsert": bson.M{
			"_id":        b.ID,
			"created_at": b.CreatedAt.UTC(),
		},
	}

	_, err := r.balances.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		_, err = r.balances.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	}
	if err != nil {
		return fmt.Errorf("upsert cash balance: %w", err)
	}
	return nil
}

func (r *PortfolioRepository) ListCashBalances(ctx context.Context, portfolioID string) ([]domain.CashBalance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "currency", Value: 1}})
	cur, err := r.balances.Find(ctx, bson.M{"portfolio_id": portfolioID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list cash balances: %w", err)
	}
	defer cur.Close(ctx)

	var balances []domain.CashBalance
	for cur.Next(ctx) {
		var d cashBalanceDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode cash balance: %w", err)
		}
		amount, err := decimal.NewFromString(d.Amount)
		if err != nil {
			return nil, fmt.Errorf("parse cash balance amount %q: %w", d.Amount, err)
		}
		balances = append(balances, domain.CashBalance{
			ID:          d.ID,
			PortfolioID: d.PortfolioID,
			Currency:    domain.Currency(d.Currency),
			Amount:      amount,
			CreatedAt:   d.CreatedAt,
			UpdatedAt:   d.UpdatedAt,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list cash balances: %w", err)
	}
	return balances, nil
}

// EnsureIndexes creates the unique compound indexes that back the
// conflict-handling semantics of portfolio creation and balance upserts.
func (r *PortfolioRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.portfolios.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "customer_id", Value: 1},
				{Key: "name", Value: 1},
				{Key: "exchange", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure portfolio indexes: %w", err)
	}

	_, err = r.balances.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "portfolio_id", Value: 1},
			{Key: "currency", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure cash balance indexes: %w", err)
	}
	return nil
}

func boSortKey(f ports.BOSortField) string {
	switch f {
	case ports.BOSortName:
		return "name"
	case ports.BOSortCustomer:
		return "customer.full_name"
	case ports.BOSortExchange:
		return "exchange"
	case ports.BOSortBaseCurrency:
		return "base_currency"
	case ports.BOSortActive:
		return "active"
	case ports.BOSortUpdatedAt:
		return "updated_at"
	default:
		return "created_at"
	}
}
