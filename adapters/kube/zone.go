package kube

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"

	zonev1 "github.com/kompox/zoneacme/config/crd/zone/v1alpha1"
	"github.com/kompox/zoneacme/domain"
	"github.com/kompox/zoneacme/domain/model"
	"github.com/kompox/zoneacme/internal/logging"
	"github.com/kompox/zoneacme/internal/naming"
)

// FieldManager is recorded on zone updates.
const FieldManager = "zoneacme"

// ZoneClient reads and writes Zone custom resources with one credential.
type ZoneClient struct {
	dynamic     dynamic.Interface
	gvr         schema.GroupVersionResource
	fingerprint string
}

var _ domain.ZoneClient = (*ZoneClient)(nil)

// NewZoneClient returns a ZoneClient serving gvr through dy. fingerprint
// identifies the token dy is authorized with.
func NewZoneClient(dy dynamic.Interface, gvr schema.GroupVersionResource, fingerprint string) *ZoneClient {
	return &ZoneClient{dynamic: dy, gvr: gvr, fingerprint: fingerprint}
}

// Fingerprint implements domain.ZoneClient.
func (c *ZoneClient) Fingerprint() string { return c.fingerprint }

// GetZone implements domain.ZoneClient.
func (c *ZoneClient) GetZone(ctx context.Context, namespace, zone string) (doc *model.ZoneDocument, err error) {
	logger := logging.FromContext(ctx).With("zone", zone, "namespace", namespace, "fingerprint", c.fingerprint)
	msgSym := "KubeZone:Get"
	logger.Debug(ctx, msgSym+"/s")
	defer func() {
		if err == nil {
			logger.Debug(ctx, msgSym+"/eok", "resourceVersion", doc.ResourceVersion, "labels", len(doc.Records))
		} else {
			logger.Debug(ctx, msgSym+"/efail", "err", err)
		}
	}()

	// A name the API server could never store cannot exist.
	if err := naming.ValidateZoneObjectName(zone); err != nil {
		return nil, fmt.Errorf("get zone %s: %w: %v", zone, model.ErrZoneNotFound, err)
	}
	if err := naming.ValidateNamespace(namespace); err != nil {
		return nil, fmt.Errorf("get zone %s: %w: %v", zone, model.ErrBackend, err)
	}

	obj, err := c.dynamic.Resource(c.gvr).Namespace(namespace).Get(ctx, zone, metav1.GetOptions{})
	if err != nil {
		return nil, zoneError("get zone", namespace, zone, err, model.ErrBackend)
	}
	records, err := zonev1.RecordsFromUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrBackend, err)
	}
	return &model.ZoneDocument{
		Name:            obj.GetName(),
		Namespace:       obj.GetNamespace(),
		ResourceVersion: obj.GetResourceVersion(),
		Records:         records,
	}, nil
}

// PutZone implements domain.ZoneClient. Only spec.records of the stored object
// is replaced. When doc.ResourceVersion is set the update is conditional on it.
func (c *ZoneClient) PutZone(ctx context.Context, doc *model.ZoneDocument) (err error) {
	if doc == nil {
		return fmt.Errorf("%w: zone document is nil", model.ErrWrite)
	}
	logger := logging.FromContext(ctx).With("zone", doc.Name, "namespace", doc.Namespace, "fingerprint", c.fingerprint)
	msgSym := "KubeZone:Put"
	logger.Debug(ctx, msgSym+"/s", "resourceVersion", doc.ResourceVersion)
	defer func() {
		if err == nil {
			logger.Debug(ctx, msgSym+"/eok")
		} else {
			logger.Info(ctx, msgSym+"/efail", "err", err)
		}
	}()

	ri := c.dynamic.Resource(c.gvr).Namespace(doc.Namespace)
	obj, err := ri.Get(ctx, doc.Name, metav1.GetOptions{})
	if err != nil {
		return zoneError("get zone", doc.Namespace, doc.Name, err, model.ErrWrite)
	}
	if doc.ResourceVersion != "" {
		obj.SetResourceVersion(doc.ResourceVersion)
	}
	if err := zonev1.SetRecords(obj, doc.Records); err != nil {
		return fmt.Errorf("%w: %w", model.ErrWrite, err)
	}
	if _, err := ri.Update(ctx, obj, metav1.UpdateOptions{FieldManager: FieldManager}); err != nil {
		return zoneError("update zone", doc.Namespace, doc.Name, err, model.ErrWrite)
	}
	return nil
}

// zoneError classifies an API error into the model sentinels. Unclassified
// errors are wrapped with fallback.
func zoneError(op, namespace, zone string, err error, fallback error) error {
	kind := fallback
	switch {
	case apierrors.IsNotFound(err):
		kind = model.ErrZoneNotFound
	case apierrors.IsForbidden(err), apierrors.IsUnauthorized(err):
		kind = model.ErrZoneForbidden
	case apierrors.IsConflict(err):
		kind = model.ErrWriteConflict
	}
	return fmt.Errorf("%s %s/%s: %w: %w", op, namespace, zone, kind, err)
}
