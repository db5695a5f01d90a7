package initializers

import (
	"context"

	"github.com/bytesandbalance/jovyne-sub000/config"
	"github.com/bytesandbalance/jovyne-sub000/fiberlog"
	applicationhandler "github.com/bytesandbalance/jovyne-sub000/lib/application"
	approvalhandler "github.com/bytesandbalance/jovyne-sub000/lib/approval"
	authhandler "github.com/bytesandbalance/jovyne-sub000/lib/auth"
	dashboardhandler "github.com/bytesandbalance/jovyne-sub000/lib/dashboard"
	xlsexport "github.com/bytesandbalance/jovyne-sub000/lib/export/xls"
	invoicehandler "github.com/bytesandbalance/jovyne-sub000/lib/invoice"
	notifyhandler "github.com/bytesandbalance/jovyne-sub000/lib/notify"
	requesthandler "github.com/bytesandbalance/jovyne-sub000/lib/request"
	rolehandler "github.com/bytesandbalance/jovyne-sub000/lib/role"
)

var LoggerConfig *fiberlog.Config

// InitAllServices wires the package singletons in dependency order: the role
// resolver before anything role-scoped, notify before every handler sending
// events, invoice before the dashboards reading its totals.
func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	rolehandler.NewHandler()
	authhandler.NewHandler()
	notifyhandler.NewHandler()
	requesthandler.NewHandler()
	applicationhandler.NewHandler()
	approvalhandler.NewHandler()
	invoicehandler.NewHandler()
	dashboardhandler.NewHandler()
	xlsexport.NewHandler()
}
