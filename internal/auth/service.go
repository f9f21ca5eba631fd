package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/ariefcatur/go-detail-market.git/internal/orders"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service struct {
	DB *pgxpool.Pool
}

func (s *Service) RegisterClient(ctx context.Context, email, password, name string) (orders.Client, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return orders.Client{}, err
	}

	c := orders.Client{ID: uuid.NewString(), Email: email, Name: name, PasswordHash: hash}
	row := s.DB.QueryRow(ctx, `
		INSERT INTO clients(id, email, password_hash, name)
		VALUES ($1,$2,$3,$4) RETURNING created_at`,
		c.ID, c.Email, c.PasswordHash, c.Name)
	if err := row.Scan(&c.CreatedAt); err != nil {
		return orders.Client{}, mapInsertErr(err)
	}
	return c, nil
}

func (s *Service) RegisterDealer(ctx context.Context, email, password, businessName, location string) (orders.Dealer, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return orders.Dealer{}, err
	}

	d := orders.Dealer{
		ID: uuid.NewString(), Email: email, BusinessName: businessName,
		Location: location, Tier: "starter", PasswordHash: hash,
	}
	row := s.DB.QueryRow(ctx, `
		INSERT INTO dealers(id, email, password_hash, business_name, location)
		VALUES ($1,$2,$3,$4,NULLIF($5,'')) RETURNING tier, credits, created_at`,
		d.ID, d.Email, d.PasswordHash, d.BusinessName, d.Location)
	if err := row.Scan(&d.Tier, &d.Credits, &d.CreatedAt); err != nil {
		return orders.Dealer{}, mapInsertErr(err)
	}
	return d, nil
}

func (s *Service) AuthenticateClient(ctx context.Context, email, password string) (orders.Client, error) {
	var c orders.Client
	row := s.DB.QueryRow(ctx, `
		SELECT id, email, password_hash, name, created_at FROM clients WHERE email=$1`, email)
	if err := row.Scan(&c.ID, &c.Email, &c.PasswordHash, &c.Name, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return orders.Client{}, ErrInvalidCredentials
		}
		return orders.Client{}, err
	}
	if bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)) != nil {
		return orders.Client{}, ErrInvalidCredentials
	}
	return c, nil
}

func (s *Service) AuthenticateDealer(ctx context.Context, email, password string) (orders.Dealer, error) {
	var d orders.Dealer
	row := s.DB.QueryRow(ctx, `
		SELECT id, email, password_hash, business_name, COALESCE(location,''), tier, credits, created_at
		FROM dealers WHERE email=$1`, email)
	if err := row.Scan(&d.ID, &d.Email, &d.PasswordHash, &d.BusinessName, &d.Location, &d.Tier, &d.Credits, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return orders.Dealer{}, ErrInvalidCredentials
		}
		return orders.Dealer{}, err
	}
	if bcrypt.CompareHashAndPassword(d.PasswordHash, []byte(password)) != nil {
		return orders.Dealer{}, ErrInvalidCredentials
	}
	return d, nil
}

func mapInsertErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}
