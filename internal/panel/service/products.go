package service

import (
	"context"
	"encoding/json"

	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
)

// ProductService manages the vendor's catalogue. Every input is validated
// before a request is made.
type ProductService struct {
	API   *panelsdk.Client
	Guard *Guard
}

func (s *ProductService) List(ctx context.Context, q panelsdk.ProductQuery) (*panelsdk.ProductList, error) {
	if err := panelsdk.Check(q); err != nil {
		return nil, err
	}
	if err := s.Guard.Require(ctx); err != nil {
		return nil, err
	}
	env, err := call(ctx, s.Guard, func(ctx context.Context) (*panelsdk.Envelope[panelsdk.ProductList], error) {
		return s.API.ListProducts(ctx, q)
	})
	if err != nil {
		return nil, wrap("list products", err)
	}
	return data(env), nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*panelsdk.Product, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	if err := s.Guard.Require(ctx); err != nil {
		return nil, err
	}
	env, err := call(ctx, s.Guard, func(ctx context.Context) (*panelsdk.Envelope[panelsdk.ProductResponse], error) {
		return s.API.GetProduct(ctx, id)
	})
	if err != nil {
		return nil, wrap("get product", err)
	}
	return &data(env).Product, nil
}

func (s *ProductService) Create(ctx context.Context, in panelsdk.ProductInput) (*panelsdk.Product, error) {
	if err := panelsdk.Check(in); err != nil {
		return nil, err
	}
	if err := s.Guard.Require(ctx); err != nil {
		return nil, err
	}
	env, err := call(ctx, s.Guard, func(ctx context.Context) (*panelsdk.Envelope[panelsdk.CreateProductResponse], error) {
		return s.API.CreateProduct(ctx, in)
	})
	if err != nil {
		return nil, wrap("create product", err)
	}

	res := data(env)
	p := res.Product
	if len(p.Images) == 0 {
		p.Images = res.Images
	}
	slogx.FromContext(ctx).Info("product created", "product_id", p.ID)
	return &p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, update panelsdk.ProductUpdate) (*panelsdk.Product, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	if err := panelsdk.Check(update); err != nil {
		return nil, err
	}
	if err := s.Guard.Require(ctx); err != nil {
		return nil, err
	}
	env, err := call(ctx, s.Guard, func(ctx context.Context) (*panelsdk.Envelope[panelsdk.ProductResponse], error) {
		return s.API.UpdateProduct(ctx, id, update)
	})
	if err != nil {
		return nil, wrap("update product", err)
	}
	return &data(env).Product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := s.Guard.Require(ctx); err != nil {
		return err
	}
	_, err := call(ctx, s.Guard, func(ctx context.Context) (*panelsdk.Envelope[json.RawMessage], error) {
		return s.API.DeleteProduct(ctx, id)
	})
	if err != nil {
		return wrap("delete product", err)
	}
	slogx.FromContext(ctx).Info("product deleted", "product_id", id)
	return nil
}
