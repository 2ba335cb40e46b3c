package kube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerservice/armcontainerservice"

	"github.com/kompox/zoneacme/internal/logging"
)

// aksTemplate fetches the user kubeconfig of an AKS managed cluster. Azure
// credentials come from the environment (azidentity.DefaultAzureCredential).
type aksTemplate struct {
	rid        *arm.ResourceID
	credential func() (azcore.TokenCredential, error)
}

func newAKSTemplate(resourceID string) (*aksTemplate, error) {
	rid, err := arm.ParseResourceID(resourceID)
	if err != nil {
		return nil, fmt.Errorf("parse AKS resource ID: %w", err)
	}
	if !strings.EqualFold(rid.ResourceType.Namespace, "Microsoft.ContainerService") ||
		!strings.EqualFold(rid.ResourceType.Type, "managedClusters") {
		return nil, fmt.Errorf("resource %s is not an AKS managed cluster", resourceID)
	}
	return &aksTemplate{
		rid: rid,
		credential: func() (azcore.TokenCredential, error) {
			return azidentity.NewDefaultAzureCredential(nil)
		},
	}, nil
}

func (a *aksTemplate) String() string { return "aks:" + a.rid.String() }

func (a *aksTemplate) Fetch(ctx context.Context) ([]byte, error) {
	logger := logging.FromContext(ctx).With("subscription", a.rid.SubscriptionID, "resourceGroup", a.rid.ResourceGroupName, "name", a.rid.Name)

	cred, err := a.credential()
	if err != nil {
		return nil, fmt.Errorf("create Azure credential: %w", err)
	}
	client, err := armcontainerservice.NewManagedClustersClient(a.rid.SubscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create AKS client: %w", err)
	}
	res, err := client.ListClusterUserCredentials(ctx, a.rid.ResourceGroupName, a.rid.Name, nil)
	if err != nil {
		logger.Info(ctx, "AKS:UserCredentials/efail", "err", azureShorterErrorString(err))
		return nil, fmt.Errorf("list AKS user credentials: %w", err)
	}
	for _, kc := range res.Kubeconfigs {
		if kc != nil && len(kc.Value) > 0 {
			logger.Info(ctx, "AKS:UserCredentials/eok")
			return kc.Value, nil
		}
	}
	return nil, fmt.Errorf("AKS cluster %s returned no user kubeconfig", a.rid.Name)
}

func azureShorterErrorString(err error) string {
	errstr := err.Error()
	var responseErr *azcore.ResponseError
	if errors.As(err, &responseErr) {
		errstr = fmt.Sprintf("%d %s (%s)", responseErr.StatusCode, http.StatusText(responseErr.StatusCode), responseErr.ErrorCode)
	}
	return errstr
}
